package db

import (
	"fmt"
	"log"
	"os"

	"gear_reservation_tool/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{}, &models.Invite{},
		&models.Equipment{}, &models.Kit{}, &models.KitMembership{},
		&models.Reservation{}, &models.PurchaseRequest{},
		&models.ReservationEvent{},
	); err != nil {
		return err
	}

	// 预约行只能指向 equipment 或 kit 其中之一，且日期有序
	checks := []string{
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS grt_reservations_target_xor;
		 ALTER TABLE %s ADD CONSTRAINT grt_reservations_target_xor
		 CHECK ((equipment_id IS NULL) <> (kit_id IS NULL));`,
			models.ReservationTable, models.ReservationTable),
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS grt_reservations_dates;
		 ALTER TABLE %s ADD CONSTRAINT grt_reservations_dates
		 CHECK (end_date >= start_date);`,
			models.ReservationTable, models.ReservationTable),
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS grt_reservations_status;
		 ALTER TABLE %s ADD CONSTRAINT grt_reservations_status
		 CHECK (status IN ('scheduled','in_use','completed','cancelled'));`,
			models.ReservationTable, models.ReservationTable),
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS grt_equipment_status;
		 ALTER TABLE %s ADD CONSTRAINT grt_equipment_status
		 CHECK (status IN ('available','reserved','in_use'));`,
			models.EquipmentTable, models.EquipmentTable),
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS grt_users_team;
		 ALTER TABLE %s ADD CONSTRAINT grt_users_team
		 CHECK (team IN ('mechanical','electrical','software','operations'));`,
			models.UserTable, models.UserTable),
	}
	for _, sql := range checks {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}

	// 冲突检查只扫活跃预约，部分索引覆盖这条查询
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_equipment_window
	  ON %s (equipment_id, start_date, end_date)
	  WHERE status IN ('scheduled','in_use') AND equipment_id IS NOT NULL;
	`, models.ReservationTable, models.ReservationTable)).Error; err != nil {
		return err
	}

	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_kit_window
	  ON %s (kit_id, start_date, end_date)
	  WHERE status IN ('scheduled','in_use') AND kit_id IS NOT NULL;
	`, models.ReservationTable, models.ReservationTable)).Error; err != nil {
		return err
	}

	return nil
}
