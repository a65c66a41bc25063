package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/model"
)

func TestAuthorizeHouse(t *testing.T) {
	owner := auth.Identity{Email: "o@x.com", UserID: 1, Role: model.RoleOwner}
	other := auth.Identity{Email: "r@x.com", UserID: 2, Role: model.RoleRenter}
	house := model.House{ID: 10, OwnerID: 1}

	assert.NoError(t, auth.AuthorizeHouse(owner, house, auth.ActionUpdate))

	err := auth.AuthorizeHouse(other, house, auth.ActionDelete)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
	assert.Equal(t, "Not authorized to delete this house", apperr.Message(err))

	err = auth.AuthorizeHouse(auth.Identity{}, house, auth.ActionUpdate)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestAuthorizeBookingDelete(t *testing.T) {
	booking := model.Booking{ID: 5, HouseID: 10, UserID: 3}

	assert.NoError(t, auth.AuthorizeBookingDelete(auth.Identity{UserID: 3, Role: model.RoleRenter}, booking))

	err := auth.AuthorizeBookingDelete(auth.Identity{UserID: 1, Role: model.RoleOwner}, booking)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestAuthorizeBookingStatus(t *testing.T) {
	house := model.House{ID: 10, OwnerID: 1}

	assert.NoError(t, auth.AuthorizeBookingStatus(auth.Identity{UserID: 1, Role: model.RoleOwner}, house))

	// the renter of the booking is not the house owner
	err := auth.AuthorizeBookingStatus(auth.Identity{UserID: 3, Role: model.RoleRenter}, house)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestIdentityContext(t *testing.T) {
	_, ok := auth.IdentityFrom(context.Background())
	assert.False(t, ok)

	want := auth.Identity{Email: "a@x.com", UserID: 9, Role: model.RoleRenter}
	got, ok := auth.IdentityFrom(auth.WithIdentity(context.Background(), want))
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = auth.IdentityFrom(auth.WithIdentity(context.Background(), auth.Identity{}))
	assert.False(t, ok, "zero identity is not an authenticated caller")
}
