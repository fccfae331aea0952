package db

import (
	"context"
	"errors"
	"time"

	"gear_reservation_tool/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReservationConflict = errors.New("reservation window conflicts with an active reservation")
	ErrNotOwner            = errors.New("reservation belongs to another user")
	ErrBadState            = errors.New("reservation is not in the required state")
	ErrNotYetEligible      = errors.New("pickup date not reached")
	ErrTargetNotFound      = errors.New("reservation target not found")
	ErrEmptyKit            = errors.New("kit has no member equipment")
)

// activeStatuses are the reservation states that claim their target.
var activeStatuses = []string{models.ReservationScheduled, models.ReservationInUse}

// CountActiveOverlapping is the availability query: active reservations on the
// target whose window intersects [start, end] inclusive on both ends.
func (r *Repo) CountActiveOverlapping(ctx context.Context, kind, targetID string, start, end time.Time) (int64, error) {
	return countActiveOverlapping(r.DB.WithContext(ctx), kind, targetID, start, end)
}

func countActiveOverlapping(tx *gorm.DB, kind, targetID string, start, end time.Time) (int64, error) {
	q := tx.Model(&models.Reservation{}).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if kind == models.TargetKit {
		q = q.Where("kit_id = ?", targetID)
	} else {
		q = q.Where("equipment_id = ?", targetID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// targetEquipmentIDs resolves the equipment rows a reservation claims: the
// single unit, or every member of the kit (ordered by id for lock ordering).
// An empty member set is an error, so a lifecycle transition can never pass
// while touching zero equipment rows.
func targetEquipmentIDs(tx *gorm.DB, res *models.Reservation) ([]string, error) {
	if res.EquipmentID != nil {
		return []string{*res.EquipmentID}, nil
	}
	ids, err := kitMemberIDs(tx, *res.KitID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrEmptyKit
	}
	return ids, nil
}

// lockEquipment takes row locks on the given equipment ids, in id order.
func lockEquipment(tx *gorm.DB, ids []string) error {
	var locked []models.Equipment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&locked).Error; err != nil {
		return err
	}
	if len(locked) != len(ids) {
		return ErrTargetNotFound
	}
	return nil
}

// setEquipmentStatus is the kit fan-out: one batch UPDATE inside the owning
// transaction, so members never end up half updated.
func setEquipmentStatus(tx *gorm.DB, ids []string, status string) error {
	return tx.Model(&models.Equipment{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func logEvent(tx *gorm.DB, reservationID, actorID, actorEmail, action string, note *string) error {
	ev := &models.ReservationEvent{
		ReservationID: reservationID,
		ActorID:       actorID,
		ActorEmail:    actorEmail,
		Action:        action,
		Note:          note,
	}
	return tx.Create(ev).Error
}

// CreateReservation inserts a reservation and flips target equipment status in
// one transaction. The availability re-check runs after the row locks are
// held, so two overlapping creates for the same target serialize here even if
// both passed the pre-check.
func (r *Repo) CreateReservation(ctx context.Context, res *models.Reservation, actorEmail string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 先确认目标存在（kit 还要有成员）
		if res.KitID != nil {
			var k models.Kit
			if err := tx.First(&k, "id = ?", *res.KitID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTargetNotFound
				}
				return err
			}
		}
		ids, err := targetEquipmentIDs(tx, res)
		if err != nil {
			return err
		}

		// 2) 锁住目标设备行
		if err := lockEquipment(tx, ids); err != nil {
			return err
		}

		// 3) 持锁重查冲突，堵住 check-then-act 竞态
		n, err := countActiveOverlapping(tx, res.TargetKind(), res.TargetID(), res.StartDate, res.EndDate)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrReservationConflict
		}

		// 4) 落预约
		if err := tx.Create(res).Error; err != nil {
			return err
		}

		// 5) 设备状态：立即取件直接 in_use，否则 reserved
		status := models.StatusReserved
		if res.Status == models.ReservationInUse {
			status = models.StatusInUse
		}
		if err := setEquipmentStatus(tx, ids, status); err != nil {
			return err
		}

		return logEvent(tx, res.ID, res.UserID, actorEmail, models.EventCreated, nil)
	})
}

// MarkPickedUp drives scheduled -> in_use and flips every claimed equipment
// row to in_use.
func (r *Repo) MarkPickedUp(ctx context.Context, reservationID, actorID, actorEmail string, admin bool, photos []string, now time.Time) (*models.Reservation, error) {
	var res models.Reservation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, "id = ?", reservationID).Error; err != nil {
			return err
		}
		if res.UserID != actorID && !admin {
			return ErrNotOwner
		}
		if res.Status != models.ReservationScheduled {
			return ErrBadState
		}
		if dateOnly(now).Before(dateOnly(res.StartDate)) {
			return ErrNotYetEligible
		}

		res.Status = models.ReservationInUse
		res.PickupPhotos = photos
		res.PickedUpAt = &now
		if err := tx.Save(&res).Error; err != nil {
			return err
		}

		ids, err := targetEquipmentIDs(tx, &res)
		if err != nil {
			return err
		}
		if err := lockEquipment(tx, ids); err != nil {
			return err
		}
		if err := setEquipmentStatus(tx, ids, models.StatusInUse); err != nil {
			return err
		}

		return logEvent(tx, res.ID, actorID, actorEmail, models.EventPickedUp, nil)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkReturned drives in_use -> completed. The status revert to available is
// unconditional: no other pending claim is consulted.
func (r *Repo) MarkReturned(ctx context.Context, reservationID, actorID, actorEmail string, admin bool, photos []string, now time.Time) (*models.Reservation, error) {
	var res models.Reservation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, "id = ?", reservationID).Error; err != nil {
			return err
		}
		if res.UserID != actorID && !admin {
			return ErrNotOwner
		}
		if res.Status != models.ReservationInUse {
			return ErrBadState
		}

		res.Status = models.ReservationCompleted
		res.ReturnPhotos = photos
		res.ReturnedAt = &now
		if err := tx.Save(&res).Error; err != nil {
			return err
		}

		ids, err := targetEquipmentIDs(tx, &res)
		if err != nil {
			return err
		}
		if err := lockEquipment(tx, ids); err != nil {
			return err
		}
		if err := setEquipmentStatus(tx, ids, models.StatusAvailable); err != nil {
			return err
		}

		return logEvent(tx, res.ID, actorID, actorEmail, models.EventReturned, nil)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelReservation drives scheduled -> cancelled and frees the reserved
// equipment. In-use reservations must go through return instead.
func (r *Repo) CancelReservation(ctx context.Context, reservationID, actorID, actorEmail string, admin bool, reason *string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, "id = ?", reservationID).Error; err != nil {
			return err
		}
		if res.UserID != actorID && !admin {
			return ErrNotOwner
		}
		if res.Status != models.ReservationScheduled {
			return ErrBadState
		}

		res.Status = models.ReservationCancelled
		if err := tx.Save(&res).Error; err != nil {
			return err
		}

		ids, err := targetEquipmentIDs(tx, &res)
		if err != nil {
			return err
		}
		if err := lockEquipment(tx, ids); err != nil {
			return err
		}
		if err := setEquipmentStatus(tx, ids, models.StatusAvailable); err != nil {
			return err
		}

		return logEvent(tx, res.ID, actorID, actorEmail, models.EventCancelled, reason)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repo) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.DB.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repo) ListReservations(ctx context.Context, userID, status string) ([]models.Reservation, error) {
	q := r.DB.WithContext(ctx).Model(&models.Reservation{}).Order("start_date DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status == "active" {
		q = q.Where("status IN ?", activeStatuses)
	} else if status != "" {
		q = q.Where("status = ?", status)
	}
	var rs []models.Reservation
	if err := q.Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *Repo) ListReservationEvents(ctx context.Context, reservationID string) ([]models.ReservationEvent, error) {
	var evs []models.ReservationEvent
	err := r.DB.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at").
		Find(&evs).Error
	return evs, err
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
