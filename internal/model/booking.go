package model

import (
	"strings"
	"time"
)

// BookingStatus is the closed set of booking states.  Only the house owner
// moves a booking between them.
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingCanceled BookingStatus = "canceled"
)

// ParseBookingStatus converts a wire value into a BookingStatus.  The web
// client sends "cancel" for cancellations, so a few spellings are accepted
// for each state.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return BookingPending, true
	case "approved", "approve", "accepted":
		return BookingApproved, true
	case "canceled", "cancelled", "cancel":
		return BookingCanceled, true
	}
	return "", false
}

func (s BookingStatus) String() string { return string(s) }

// Booking records a renter's request to stay in a house.
//
// Fields:
//
//	ID        – primary key identifier.
//	HouseID   – house being booked.
//	UserID    – renter who made the request.
//	Status    – pending, approved or canceled.
//	Checkin   – start of the stay (UTC).
//	Checkout  – end of the stay (UTC), strictly after Checkin.
//	CreatedAt – creation timestamp.
type Booking struct {
	ID        uint64        `json:"id"`         // bookings.id
	HouseID   uint64        `json:"house_id"`   // bookings.house_id
	UserID    uint64        `json:"user_id"`    // bookings.user_id
	Status    BookingStatus `json:"status"`     // bookings.status
	Checkin   time.Time     `json:"checkin"`    // bookings.checkin
	Checkout  time.Time     `json:"checkout"`   // bookings.checkout
	CreatedAt time.Time     `json:"created_at"` // bookings.created_at
}
