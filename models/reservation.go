package models

import (
	"time"

	"github.com/lib/pq"
)

const ReservationTable = "grt_reservations"

// Reservation status values.
const (
	ReservationScheduled = "scheduled"
	ReservationInUse     = "in_use"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

// Target kinds for availability checks and reservation creation.
const (
	TargetEquipment = "equipment"
	TargetKit       = "kit"
)

// Reservation references exactly one of EquipmentID / KitID; the XOR is
// enforced both at creation and by a check constraint.
type Reservation struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string  `gorm:"type:uuid;index;not null" json:"userId"`
	EquipmentID *string `gorm:"type:uuid;index" json:"equipmentId,omitempty"`
	KitID       *string `gorm:"type:uuid;index" json:"kitId,omitempty"`

	StartDate time.Time `gorm:"type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null" json:"endDate"`
	Reason    string    `gorm:"size:500" json:"reason,omitempty"`
	Status    string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	PickupPhotos pq.StringArray `gorm:"type:text[]" json:"pickupPhotos,omitempty"`
	ReturnPhotos pq.StringArray `gorm:"type:text[]" json:"returnPhotos,omitempty"`

	PickedUpAt *time.Time `json:"pickedUpAt,omitempty"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reservation) TableName() string { return ReservationTable }

// Active reports whether the reservation currently claims its target.
func (r *Reservation) Active() bool {
	return r.Status == ReservationScheduled || r.Status == ReservationInUse
}

// TargetKind returns which side of the XOR is set.
func (r *Reservation) TargetKind() string {
	if r.KitID != nil {
		return TargetKit
	}
	return TargetEquipment
}

// TargetID returns the referenced equipment or kit id.
func (r *Reservation) TargetID() string {
	if r.KitID != nil {
		return *r.KitID
	}
	if r.EquipmentID != nil {
		return *r.EquipmentID
	}
	return ""
}

// Overlaps is the inclusive-inclusive date range intersection test. It
// mirrors the SQL predicate the availability query runs in Postgres, so unit
// tests can exercise the same semantics in memory: a checkout on another
// reservation's return date still counts as a conflict (no same-day turnover).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
