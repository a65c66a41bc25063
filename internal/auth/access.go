package auth

import (
	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/model"
)

// Action names the mutation being authorized; it only shapes the message.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AuthorizeHouse permits a house mutation only for the house owner.
func AuthorizeHouse(who Identity, house model.House, action Action) error {
	if err := authenticated(who); err != nil {
		return err
	}
	if house.OwnerID != who.UserID {
		return apperr.Forbidden("Not authorized to " + string(action) + " this house")
	}
	return nil
}

// AuthorizeBookingDelete permits deleting a booking only for the renter
// who created it.
func AuthorizeBookingDelete(who Identity, booking model.Booking) error {
	if err := authenticated(who); err != nil {
		return err
	}
	if booking.UserID != who.UserID {
		return apperr.Forbidden("Not authorized to delete this booking")
	}
	return nil
}

// AuthorizeBookingStatus permits a status change only for the owner of the
// booked house.  house must be the house the booking references.
func AuthorizeBookingStatus(who Identity, house model.House) error {
	if err := authenticated(who); err != nil {
		return err
	}
	if house.OwnerID != who.UserID {
		return apperr.Forbidden("Not authorized to update this booking")
	}
	return nil
}

func authenticated(who Identity) error {
	if who.UserID == 0 {
		return apperr.Unauthorized("Authentication failed")
	}
	return nil
}
