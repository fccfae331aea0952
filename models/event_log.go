package models

import "time"

const ReservationEventTable = "grt_reservation_events"

// Reservation event actions, one per lifecycle transition.
const (
	EventCreated   = "created"
	EventPickedUp  = "picked_up"
	EventReturned  = "returned"
	EventCancelled = "cancelled"
)

// ReservationEvent is the audit trail for lifecycle transitions.
type ReservationEvent struct {
	ID            string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReservationID string    `gorm:"type:uuid;index;not null" json:"reservationId"`
	ActorID       string    `gorm:"type:uuid" json:"actorId"`
	ActorEmail    string    `json:"actorEmail"`
	Action        string    `gorm:"size:20;not null" json:"action"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (ReservationEvent) TableName() string { return ReservationEventTable }
