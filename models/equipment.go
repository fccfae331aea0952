package models

import "time"

const (
	EquipmentTable     = "grt_equipment"
	KitTable           = "grt_kits"
	KitMembershipTable = "grt_kit_equipment"
)

// Equipment status values. The kit counterpart is never stored, see DeriveKitStatus.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusInUse     = "in_use"
	StatusEmpty     = "empty" // derived kit status only
)

type Equipment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Serial      string    `gorm:"size:120;uniqueIndex;not null" json:"serial"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	PhotoURL    string    `gorm:"size:512" json:"photoUrl,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'available'" json:"status"`
	CreatedBy   string    `gorm:"type:uuid;index;not null" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Kit struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	PhotoURL    string    `gorm:"size:512" json:"photoUrl,omitempty"`
	CreatedBy   string    `gorm:"type:uuid;index;not null" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type KitMembership struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	KitID       string    `gorm:"type:uuid;not null;uniqueIndex:grt_kit_equipment_pair" json:"kitId"`
	EquipmentID string    `gorm:"type:uuid;not null;uniqueIndex:grt_kit_equipment_pair" json:"equipmentId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Equipment) TableName() string     { return EquipmentTable }
func (Kit) TableName() string           { return KitTable }
func (KitMembership) TableName() string { return KitMembershipTable }

// DeriveKitStatus computes a kit's status from a snapshot of its members'
// statuses. Kits carry no stored status column.
func DeriveKitStatus(memberStatuses []string) string {
	if len(memberStatuses) == 0 {
		return StatusEmpty
	}
	allAvailable := true
	for _, s := range memberStatuses {
		if s == StatusInUse {
			return StatusInUse
		}
		if s != StatusAvailable {
			allAvailable = false
		}
	}
	if allAvailable {
		return StatusAvailable
	}
	return StatusReserved
}
