// Package reservation holds the reservation lifecycle: availability checks,
// the scheduled -> in_use -> completed state machine, kit member fan-out and
// the pickup notification side channel.
package reservation

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"gear_reservation_tool/models"
	"gear_reservation_tool/notify"

	"github.com/google/uuid"
)

var (
	ErrUnavailable    = errors.New("target is not available for the requested window")
	ErrTargetBusy     = errors.New("another booking for this target is in progress")
	ErrPhotosRequired = errors.New("at least one photo reference is required")
	ErrBadPhotoRef    = errors.New("photo reference is not a valid URL")
	ErrBadTarget      = errors.New("target kind must be equipment or kit")
	ErrBadWindow      = errors.New("end date must not precede start date")
)

// Repo is the storage surface the lifecycle needs. *db.Repo satisfies it; the
// tests use an in-memory fake.
type Repo interface {
	CountActiveOverlapping(ctx context.Context, kind, targetID string, start, end time.Time) (int64, error)
	CreateReservation(ctx context.Context, res *models.Reservation, actorEmail string) error
	MarkPickedUp(ctx context.Context, id, actorID, actorEmail string, admin bool, photos []string, now time.Time) (*models.Reservation, error)
	MarkReturned(ctx context.Context, id, actorID, actorEmail string, admin bool, photos []string, now time.Time) (*models.Reservation, error)
	CancelReservation(ctx context.Context, id, actorID, actorEmail string, admin bool, reason *string) (*models.Reservation, error)
	KitMemberStatuses(ctx context.Context, kitID string) ([]string, error)
	FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error)
	FindKitByID(ctx context.Context, id string) (*models.Kit, error)
}

// Claims serializes concurrent creates on the same target. A nil Claims
// leaves only the transactional re-check between a stale availability read
// and the insert.
type Claims interface {
	Acquire(ctx context.Context, targetID string) (bool, error)
	Release(ctx context.Context, targetID string)
}

// Notifier delivers the pickup side effect. Failures never propagate to the
// lifecycle transition.
type Notifier interface {
	NotifyPickup(ctx context.Context, ev notify.PickupEvent) error
}

// Actor is the explicit caller identity threaded into every operation.
type Actor struct {
	ID          string
	Email       string
	DisplayName string
	Admin       bool
}

type Service struct {
	repo     Repo
	claims   Claims
	notifier Notifier
	now      func() time.Time
}

func New(repo Repo, claims Claims, notifier Notifier) *Service {
	return &Service{repo: repo, claims: claims, notifier: notifier, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Available reports whether the target has no active reservation whose window
// intersects [start, end]. Boundary dates collide: a checkout on another
// reservation's return date is a conflict.
func (s *Service) Available(ctx context.Context, kind, targetID string, start, end time.Time) (bool, error) {
	if kind != models.TargetEquipment && kind != models.TargetKit {
		return false, ErrBadTarget
	}
	if end.Before(start) {
		return false, ErrBadWindow
	}
	n, err := s.repo.CountActiveOverlapping(ctx, kind, targetID, dateOnly(start), dateOnly(end))
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// KitStatus derives a kit's status from a live snapshot of member statuses.
func (s *Service) KitStatus(ctx context.Context, kitID string) (string, error) {
	statuses, err := s.repo.KitMemberStatuses(ctx, kitID)
	if err != nil {
		return "", err
	}
	return models.DeriveKitStatus(statuses), nil
}

type CreateInput struct {
	TargetID   string
	TargetKind string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string

	// PickupPhotos non-empty selects the immediate-pickup path: the
	// reservation is created already in_use. Empty selects the deferred
	// path: created scheduled, photos arrive at the pickup step.
	PickupPhotos []string
}

// Create books the target: availability check, claim, insert and equipment
// status flip in one storage transaction.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*models.Reservation, error) {
	if in.TargetKind != models.TargetEquipment && in.TargetKind != models.TargetKit {
		return nil, ErrBadTarget
	}
	if in.TargetID == "" {
		return nil, ErrBadTarget
	}
	start, end := dateOnly(in.StartDate), dateOnly(in.EndDate)
	if end.Before(start) {
		return nil, ErrBadWindow
	}
	if err := validatePhotoRefs(in.PickupPhotos); err != nil {
		return nil, err
	}

	if s.claims != nil {
		ok, err := s.claims.Acquire(ctx, in.TargetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTargetBusy
		}
		defer s.claims.Release(ctx, in.TargetID)
	}

	ok, err := s.Available(ctx, in.TargetKind, in.TargetID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnavailable
	}

	res := &models.Reservation{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    in.Reason,
		Status:    models.ReservationScheduled,
	}
	if in.TargetKind == models.TargetKit {
		res.KitID = &in.TargetID
	} else {
		res.EquipmentID = &in.TargetID
	}
	if len(in.PickupPhotos) > 0 {
		now := s.now().UTC()
		res.Status = models.ReservationInUse
		res.PickupPhotos = in.PickupPhotos
		res.PickedUpAt = &now
	}

	if err := s.repo.CreateReservation(ctx, res, actor.Email); err != nil {
		return nil, err
	}

	if res.Status == models.ReservationInUse {
		s.dispatchPickupNotice(ctx, res, actor)
	}
	return res, nil
}

// Pickup drives scheduled -> in_use; eligible once today has reached the
// reservation's start date.
func (s *Service) Pickup(ctx context.Context, actor Actor, reservationID string, photos []string) (*models.Reservation, error) {
	if len(photos) == 0 {
		return nil, ErrPhotosRequired
	}
	if err := validatePhotoRefs(photos); err != nil {
		return nil, err
	}
	res, err := s.repo.MarkPickedUp(ctx, reservationID, actor.ID, actor.Email, actor.Admin, photos, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.dispatchPickupNotice(ctx, res, actor)
	return res, nil
}

// Return drives in_use -> completed and restores target availability.
func (s *Service) Return(ctx context.Context, actor Actor, reservationID string, photos []string) (*models.Reservation, error) {
	if len(photos) == 0 {
		return nil, ErrPhotosRequired
	}
	if err := validatePhotoRefs(photos); err != nil {
		return nil, err
	}
	return s.repo.MarkReturned(ctx, reservationID, actor.ID, actor.Email, actor.Admin, photos, s.now().UTC())
}

// Cancel drives scheduled -> cancelled.
func (s *Service) Cancel(ctx context.Context, actor Actor, reservationID string, reason *string) (*models.Reservation, error) {
	return s.repo.CancelReservation(ctx, reservationID, actor.ID, actor.Email, actor.Admin, reason)
}

// dispatchPickupNotice resolves the payload with the request context, then
// fires the POST from its own goroutine with a detached context so the
// transition's outcome never depends on it.
func (s *Service) dispatchPickupNotice(ctx context.Context, res *models.Reservation, actor Actor) {
	if s.notifier == nil {
		return
	}
	ev := notify.PickupEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		UserEmail:     actor.Email,
		UserName:      actor.DisplayName,
		ItemType:      res.TargetKind(),
		StartDate:     res.StartDate.Format("2006-01-02"),
		EndDate:       res.EndDate.Format("2006-01-02"),
		Reason:        res.Reason,
	}
	if res.PickedUpAt != nil {
		ev.PickupDate = res.PickedUpAt.Format("2006-01-02")
	}
	if res.KitID != nil {
		if k, err := s.repo.FindKitByID(ctx, *res.KitID); err == nil {
			ev.ItemName = k.Name
		}
	} else if res.EquipmentID != nil {
		if e, err := s.repo.FindEquipmentByID(ctx, *res.EquipmentID); err == nil {
			ev.ItemName = e.Name
		}
	}

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyPickup(nctx, ev); err != nil {
			log.Printf("pickup notification for reservation %s failed: %v", res.ID, err)
		}
	}()
}

func validatePhotoRefs(refs []string) error {
	for _, ref := range refs {
		u, err := url.Parse(ref)
		if err != nil || u.Scheme == "" || u.Host == "" || !strings.HasPrefix(u.Scheme, "http") {
			return ErrBadPhotoRef
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
