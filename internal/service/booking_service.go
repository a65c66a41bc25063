package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/metrics"
	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/notify"
	"github.com/lalarentals/users-micro/internal/repository"
)

// BookingInput is a booking request.
type BookingInput struct {
	HouseID  uint64
	Checkin  time.Time
	Checkout time.Time
}

// BookingService manages bookings and tells the other party about them.
type BookingService struct {
	bookings BookingStore
	houses   HouseStore
	users    UserStore
	notifier notify.Dispatcher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewBookingService(bookings BookingStore, houses HouseStore, users UserStore,
	notifier notify.Dispatcher, m *metrics.Metrics, logger *slog.Logger) *BookingService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{bookings: bookings, houses: houses, users: users, notifier: notifier, metrics: m, logger: logger}
}

// Create books an available house for the caller.  The house becomes
// unavailable in the same transaction; a house that is already taken is
// a Conflict.  The owner is notified after the commit.
func (s *BookingService) Create(ctx context.Context, who auth.Identity, in BookingInput) (*model.Booking, error) {
	if who.UserID == 0 {
		return nil, apperr.Unauthorized("Authentication failed")
	}
	if in.HouseID == 0 {
		return nil, apperr.Validation("Invalid booking", map[string]string{"house_id": "This field is required"})
	}
	if in.Checkin.IsZero() || in.Checkout.IsZero() || !in.Checkin.Before(in.Checkout) {
		return nil, apperr.Validation("Checkin must be before checkout",
			map[string]string{"checkout": "Must be after checkin"})
	}

	b := &model.Booking{HouseID: in.HouseID, UserID: who.UserID, Status: model.BookingPending,
		Checkin: in.Checkin, Checkout: in.Checkout}
	if err := s.bookings.CreateReservingHouse(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.metrics.Booking("house_not_found")
			return nil, apperr.NotFound("House not found")
		case errors.Is(err, repository.ErrHouseUnavailable):
			s.metrics.Booking("unavailable")
			return nil, apperr.Conflict("house_id", "House is not available")
		}
		return nil, apperr.Internal(err, "create booking")
	}
	s.metrics.Booking("created")
	s.notifyOwner(ctx, b)
	return b, nil
}

func (s *BookingService) notifyOwner(ctx context.Context, b *model.Booking) {
	house, err := s.houses.GetByID(ctx, b.HouseID)
	if err != nil {
		s.logger.WarnContext(ctx, "booking notification skipped", "booking_id", b.ID, "error", err)
		return
	}
	owner, err := s.users.GetByID(ctx, house.OwnerID)
	if err != nil {
		s.logger.WarnContext(ctx, "booking notification skipped", "booking_id", b.ID, "error", err)
		return
	}
	renterName := "A renter"
	if renter, err := s.users.GetByID(ctx, b.UserID); err == nil && renter.FullName != "" {
		renterName = renter.FullName
	}
	s.notifier.Dispatch(ctx, notify.BookingRequested(owner.Email, owner.FullName, renterName, house.Title))
}

// ListAll returns every booking.
func (s *BookingService) ListAll(ctx context.Context) ([]*model.Booking, error) {
	bs, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list bookings")
	}
	return bs, nil
}

// ListMine returns the caller's bookings.
func (s *BookingService) ListMine(ctx context.Context, who auth.Identity) ([]*model.Booking, error) {
	bs, err := s.bookings.ListByUser(ctx, who.UserID)
	if err != nil {
		return nil, apperr.Internal(err, "list own bookings")
	}
	return bs, nil
}

// UpdateStatus moves booking id to rawStatus.  Only the owner of the
// booked house may do so.  The renter is notified after the write.
func (s *BookingService) UpdateStatus(ctx context.Context, who auth.Identity, id uint64, rawStatus string) (*model.Booking, error) {
	const denied = "Not authorized to update this booking"
	status, ok := model.ParseBookingStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation("Invalid status",
			map[string]string{"status": "Must be one of: pending, approved, canceled"})
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get booking", "Booking not found", denied)
	}
	house, err := s.houses.GetByID(ctx, b.HouseID)
	if err != nil {
		// a booking whose house is gone has no owner who could approve it
		return nil, storeErr(err, "get house", denied, denied)
	}
	if err := auth.AuthorizeBookingStatus(who, *house); err != nil {
		return nil, err
	}
	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, storeErr(err, "update booking", "Booking not found", denied)
	}

	if renter, err := s.users.GetByID(ctx, updated.UserID); err == nil {
		s.notifier.Dispatch(ctx, notify.BookingStatusChanged(renter.Email, renter.FullName, house.Title, string(status)))
	} else {
		s.logger.WarnContext(ctx, "status notification skipped", "booking_id", id, "error", err)
	}
	return updated, nil
}

// Delete removes booking id.  Only the renter who made it may do so.
func (s *BookingService) Delete(ctx context.Context, who auth.Identity, id uint64) error {
	const denied = "Not authorized to delete this booking"
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "get booking", "Booking not found", denied)
	}
	if err := auth.AuthorizeBookingDelete(who, *b); err != nil {
		return err
	}
	return storeErr(s.bookings.DeleteByIDAndUser(ctx, id, who.UserID), "delete booking", "Booking not found", denied)
}
