package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lalarentals/users-micro/internal/model"
)

const houseColumns = "id, owner_id, title, description, address, location, price, bedrooms, bathrooms, size, furnished, available, image_url"

// HouseRepo encapsulates all database queries related to houses.
type HouseRepo struct {
	db *sql.DB
}

// NewHouseRepo constructs a HouseRepo with the provided DB handle.
func NewHouseRepo(db *sql.DB) *HouseRepo {
	return &HouseRepo{db: db}
}

// Create inserts h and reloads it so defaults (available) are populated.
func (r *HouseRepo) Create(ctx context.Context, h *model.House) error {
	const q = `INSERT INTO houses (owner_id, title, description, address, location, price, bedrooms, bathrooms, size, furnished, available, image_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.OwnerID, h.Title, h.Description, h.Address, h.Location,
		h.Price, h.Bedrooms, h.Bathrooms, h.Size, h.Furnished, h.Available, h.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*h = *stored
	return nil
}

// GetByID fetches a house regardless of owner.  It returns ErrNotFound if
// no row matches.
func (r *HouseRepo) GetByID(ctx context.Context, id uint64) (*model.House, error) {
	h, err := scanHouse(r.db.QueryRowContext(ctx, "SELECT "+houseColumns+" FROM houses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

// ListAvailable returns every house that can still be booked, ordered by id.
func (r *HouseRepo) ListAvailable(ctx context.Context) ([]*model.House, error) {
	return r.list(ctx, "SELECT "+houseColumns+" FROM houses WHERE available = 1 ORDER BY id")
}

// ListByOwner returns all houses of ownerID ordered by id.
func (r *HouseRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.House, error) {
	return r.list(ctx, "SELECT "+houseColumns+" FROM houses WHERE owner_id = ? ORDER BY id", ownerID)
}

func (r *HouseRepo) list(ctx context.Context, q string, args ...any) ([]*model.House, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.House{}
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable columns of h provided it belongs to
// ownerID.  It returns ErrNotFound when the house does not exist and
// ErrForbidden when someone else owns it; in both cases nothing changes.
// The owner column itself is never rewritten.
func (r *HouseRepo) Update(ctx context.Context, h *model.House, ownerID uint64) (err error) {
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

	if err = checkOwner(ctx, tx, "SELECT owner_id FROM houses WHERE id = ?", h.ID, ownerID); err != nil {
		return err
	}
	const q = `UPDATE houses
	           SET title = ?, description = ?, address = ?, location = ?, price = ?, bedrooms = ?,
	               bathrooms = ?, size = ?, furnished = ?, available = ?, image_url = ?
	           WHERE id = ? AND owner_id = ?`
	if _, err = tx.ExecContext(ctx, q, h.Title, h.Description, h.Address, h.Location, h.Price,
		h.Bedrooms, h.Bathrooms, h.Size, h.Furnished, h.Available, h.ImageURL, h.ID, ownerID); err != nil {
		return err
	}
	stored, err := scanHouse(tx.QueryRowContext(ctx, "SELECT "+houseColumns+" FROM houses WHERE id = ?", h.ID))
	if err != nil {
		return err
	}
	*h = *stored
	return nil
}

// DeleteByIDAndOwner removes a house and the bookings made against it,
// provided it belongs to ownerID.  ErrNotFound and ErrForbidden are
// returned as in Update.  The deletion occurs within a transaction.
func (r *HouseRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (err error) {
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

	if err = checkOwner(ctx, tx, "SELECT owner_id FROM houses WHERE id = ?", id, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM bookings WHERE house_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM houses WHERE id = ? AND owner_id = ?", id, ownerID)
	return err
}

// checkOwner loads the owning user id with q and compares it to want.
func checkOwner(ctx context.Context, tx *sql.Tx, q string, id, want uint64) error {
	var owner uint64
	if err := tx.QueryRowContext(ctx, q, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if owner != want {
		return ErrForbidden
	}
	return nil
}

func scanHouse(row rowScanner) (*model.House, error) {
	var h model.House
	var desc, image sql.NullString
	var size sql.NullFloat64
	if err := row.Scan(&h.ID, &h.OwnerID, &h.Title, &desc, &h.Address, &h.Location, &h.Price,
		&h.Bedrooms, &h.Bathrooms, &size, &h.Furnished, &h.Available, &image); err != nil {
		return nil, err
	}
	if desc.Valid {
		h.Description = &desc.String
	}
	if size.Valid {
		h.Size = &size.Float64
	}
	if image.Valid {
		h.ImageURL = &image.String
	}
	return &h, nil
}
