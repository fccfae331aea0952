package db

import (
	"context"
	"errors"

	"gear_reservation_tool/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyMember = errors.New("equipment already in kit")
	ErrKitInUse      = errors.New("kit has active reservations")
)

// Kits

func (r *Repo) CreateKit(ctx context.Context, k *models.Kit) error {
	return r.DB.WithContext(ctx).Create(k).Error
}

func (r *Repo) FindKitByID(ctx context.Context, id string) (*models.Kit, error) {
	var k models.Kit
	if err := r.DB.WithContext(ctx).First(&k, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *Repo) ListKits(ctx context.Context) ([]models.Kit, error) {
	var ks []models.Kit
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&ks).Error
	return ks, err
}

func (r *Repo) UpdateKit(ctx context.Context, id string, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Kit{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeleteKit refuses while the kit still has active reservations: dropping the
// memberships would strand the member equipment in reserved/in_use with no
// reservation able to release it.
func (r *Repo) DeleteKit(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countActiveKitReservations(tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrKitInUse
		}
		if err := tx.Where("kit_id = ?", id).
			Delete(&models.KitMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Kit{ID: id}).Error
	})
}

func countActiveKitReservations(tx *gorm.DB, kitID string) (int64, error) {
	var n int64
	err := tx.Model(&models.Reservation{}).
		Where("kit_id = ? AND status IN ?", kitID, activeStatuses).
		Count(&n).Error
	return n, err
}

// Memberships

func (r *Repo) AddKitMember(ctx context.Context, kitID, equipmentID string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.KitMembership{}).
		Where("kit_id = ? AND equipment_id = ?", kitID, equipmentID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyMember
	}
	m := &models.KitMembership{KitID: kitID, EquipmentID: equipmentID}
	return r.DB.WithContext(ctx).Create(m).Error
}

// RemoveKitMember carries the same guard as DeleteKit: an active kit
// reservation has already fanned out to this equipment.
func (r *Repo) RemoveKitMember(ctx context.Context, kitID, equipmentID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countActiveKitReservations(tx, kitID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrKitInUse
		}
		return tx.Where("kit_id = ? AND equipment_id = ?", kitID, equipmentID).
			Delete(&models.KitMembership{}).Error
	})
}

// kitMemberIDs resolves the member equipment ids of a kit, ordered by id so
// callers locking the rows always take them in the same order.
func kitMemberIDs(tx *gorm.DB, kitID string) ([]string, error) {
	var ids []string
	err := tx.Model(&models.KitMembership{}).
		Where("kit_id = ?", kitID).
		Order("equipment_id").
		Pluck("equipment_id", &ids).Error
	return ids, err
}

// KitMembers returns the member equipment rows of a kit.
func (r *Repo) KitMembers(ctx context.Context, kitID string) ([]models.Equipment, error) {
	var es []models.Equipment
	err := r.DB.WithContext(ctx).
		Joins("JOIN "+models.KitMembershipTable+" km ON km.equipment_id = "+models.EquipmentTable+".id").
		Where("km.kit_id = ?", kitID).
		Order(models.EquipmentTable + ".name").
		Find(&es).Error
	return es, err
}

// KitMemberStatuses returns a snapshot of member statuses for the derived
// kit status computation.
func (r *Repo) KitMemberStatuses(ctx context.Context, kitID string) ([]string, error) {
	var statuses []string
	err := r.DB.WithContext(ctx).Model(&models.Equipment{}).
		Joins("JOIN "+models.KitMembershipTable+" km ON km.equipment_id = "+models.EquipmentTable+".id").
		Where("km.kit_id = ?", kitID).
		Pluck(models.EquipmentTable+".status", &statuses).Error
	return statuses, err
}
