package models

import "time"

const PurchaseRequestTable = "grt_purchase_requests"

// Purchase request status values.
const (
	PurchasePending  = "pending"
	PurchaseApproved = "approved"
	PurchaseRejected = "rejected"
)

type PurchaseRequest struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string     `gorm:"type:uuid;index;not null" json:"userId"`
	ItemName      string     `gorm:"size:200;not null" json:"itemName"`
	Justification string     `gorm:"size:1000" json:"justification,omitempty"`
	Link          string     `gorm:"size:512" json:"link,omitempty"`
	EstimatedCost float64    `json:"estimatedCost,omitempty"`
	Status        string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ReviewedBy    *string    `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (PurchaseRequest) TableName() string { return PurchaseRequestTable }
