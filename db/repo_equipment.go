package db

import (
	"context"

	"gear_reservation_tool/models"
)

// Equipment

func (r *Repo) CreateEquipment(ctx context.Context, e *models.Equipment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *Repo) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	var e models.Equipment
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) ListEquipment(ctx context.Context, status string) ([]models.Equipment, error) {
	q := r.DB.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var es []models.Equipment
	err := q.Find(&es).Error
	return es, err
}

func (r *Repo) UpdateEquipment(ctx context.Context, id string, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *Repo) DeleteEquipment(ctx context.Context, id string) error {
	// 先摘掉套件引用，再删本体
	if err := r.DB.WithContext(ctx).
		Where("equipment_id = ?", id).
		Delete(&models.KitMembership{}).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&models.Equipment{ID: id}).Error
}
