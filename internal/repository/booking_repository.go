package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lalarentals/users-micro/internal/model"
)

const bookingColumns = "id, house_id, user_id, status, checkin, checkout, created_at"

// BookingRepo provides CRUD operations for bookings.  All timestamps are
// stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateReservingHouse takes the house and records the booking in one
// transaction.  The house flips from available to unavailable with a
// conditional update, so of two concurrent requests for the same house
// exactly one succeeds; the other gets ErrHouseUnavailable.  A missing
// house yields ErrNotFound.  b.ID, b.Status and b.CreatedAt are filled in
// from the stored row.
func (r *BookingRepo) CreateReservingHouse(ctx context.Context, b *model.Booking) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "UPDATE houses SET available = 0 WHERE id = ? AND available = 1", b.HouseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err = tx.QueryRowContext(ctx, "SELECT 1 FROM houses WHERE id = ?", b.HouseID).Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = ErrNotFound
		case err == nil:
			err = ErrHouseUnavailable
		}
		return err
	}

	if b.Status == "" {
		b.Status = model.BookingPending
	}
	res, err = tx.ExecContext(ctx,
		"INSERT INTO bookings (house_id, user_id, status, checkin, checkout) VALUES (?, ?, ?, ?, ?)",
		b.HouseID, b.UserID, string(b.Status), b.Checkin.UTC(), b.Checkout.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanBooking(tx.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetByID fetches a booking.  It returns ErrNotFound if no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// ListAll returns every booking ordered by id.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY id")
}

// ListByUser returns the bookings made by userID ordered by id.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY id", userID)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenterBooking is a booking together with the renter who made it, as seen
// by the owner of the booked house.
type RenterBooking struct {
	Booking     model.Booking
	RenterName  string
	RenterEmail string
}

// ListForOwner returns the bookings on every house owned by ownerID with
// renter details attached, ordered by house then booking id.
func (r *BookingRepo) ListForOwner(ctx context.Context, ownerID uint64) ([]RenterBooking, error) {
	const q = `SELECT b.id, b.house_id, b.user_id, b.status, b.checkin, b.checkout, b.created_at,
	                  u.full_name, u.email
	           FROM bookings b
	           JOIN houses h ON h.id = b.house_id
	           JOIN users u ON u.id = b.user_id
	           WHERE h.owner_id = ?
	           ORDER BY b.house_id, b.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RenterBooking
	for rows.Next() {
		var rb RenterBooking
		var status string
		b := &rb.Booking
		if err := rows.Scan(&b.ID, &b.HouseID, &b.UserID, &status, &b.Checkin, &b.Checkout, &b.CreatedAt,
			&rb.RenterName, &rb.RenterEmail); err != nil {
			return nil, err
		}
		b.Status = model.BookingStatus(status)
		utcTimes(b)
		out = append(out, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the status of booking id and returns the stored row.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) (*model.Booking, error) {
	if _, err := r.db.ExecContext(ctx, "UPDATE bookings SET status = ? WHERE id = ?", string(status), id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// DeleteByIDAndUser removes a booking provided userID created it.  It
// returns ErrNotFound when the booking does not exist and ErrForbidden when
// another user made it.
func (r *BookingRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = checkOwner(ctx, tx, "SELECT user_id FROM bookings WHERE id = ?", id, userID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM bookings WHERE id = ? AND user_id = ?", id, userID)
	return err
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var status string
	if err := row.Scan(&b.ID, &b.HouseID, &b.UserID, &status, &b.Checkin, &b.Checkout, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	utcTimes(&b)
	return &b, nil
}

func utcTimes(b *model.Booking) {
	b.Checkin = b.Checkin.UTC()
	b.Checkout = b.Checkout.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
}
