// Package service implements the registration, login, house and booking
// flows on top of the repositories and the auth core.  Every error it
// returns is an apperr error ready to be mapped onto an HTTP response.
package service

import (
	"context"
	"errors"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/repository"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	ExistsBy(ctx context.Context, field repository.UniqueField, value string) (bool, error)
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmailOrPhone(ctx context.Context, identifier string) (model.User, error)
}

// HouseStore is the house table.
type HouseStore interface {
	Create(ctx context.Context, h *model.House) error
	GetByID(ctx context.Context, id uint64) (*model.House, error)
	ListAvailable(ctx context.Context) ([]*model.House, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.House, error)
	Update(ctx context.Context, h *model.House, ownerID uint64) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// BookingStore is the booking table.
type BookingStore interface {
	CreateReservingHouse(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error)
	ListForOwner(ctx context.Context, ownerID uint64) ([]repository.RenterBooking, error)
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) (*model.Booking, error)
	DeleteByIDAndUser(ctx context.Context, id, userID uint64) error
}

var (
	_ UserStore    = (*repository.UserRepo)(nil)
	_ HouseStore   = (*repository.HouseRepo)(nil)
	_ BookingStore = (*repository.BookingRepo)(nil)
)

// storeErr maps a repository error onto the taxonomy.  notFound and
// forbidden are the public messages for the respective sentinels.
func storeErr(err error, op, notFound, forbidden string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrForbidden):
		return apperr.Forbidden(forbidden)
	}
	return apperr.Internal(err, op)
}
