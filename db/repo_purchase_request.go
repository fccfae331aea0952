package db

import (
	"context"
	"errors"
	"time"

	"gear_reservation_tool/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyReviewed = errors.New("purchase request already reviewed")

// Purchase requests

func (r *Repo) CreatePurchaseRequest(ctx context.Context, pr *models.PurchaseRequest) error {
	return r.DB.WithContext(ctx).Create(pr).Error
}

func (r *Repo) FindPurchaseRequestByID(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	var pr models.PurchaseRequest
	if err := r.DB.WithContext(ctx).First(&pr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *Repo) ListPurchaseRequests(ctx context.Context, userID, status string) ([]models.PurchaseRequest, error) {
	q := r.DB.WithContext(ctx).Model(&models.PurchaseRequest{}).Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var prs []models.PurchaseRequest
	err := q.Find(&prs).Error
	return prs, err
}

func (r *Repo) UpdatePurchaseRequest(ctx context.Context, id string, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, models.PurchasePending).
		Updates(fields).Error
}

// ReviewPurchaseRequest approves or rejects a pending request. Reviewing an
// already-reviewed request is rejected rather than overwritten.
func (r *Repo) ReviewPurchaseRequest(ctx context.Context, id, reviewerID, verdict string) (*models.PurchaseRequest, error) {
	var pr models.PurchaseRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pr, "id = ?", id).Error; err != nil {
			return err
		}
		if pr.Status != models.PurchasePending {
			return ErrAlreadyReviewed
		}
		now := time.Now().UTC()
		pr.Status = verdict
		pr.ReviewedBy = &reviewerID
		pr.ReviewedAt = &now
		return tx.Save(&pr).Error
	})
	if err != nil {
		return nil, err
	}
	return &pr, nil
}
