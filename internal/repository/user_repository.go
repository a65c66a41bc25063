package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lalarentals/users-micro/internal/model"
)

// UniqueField names a users column that must be unique.
type UniqueField string

const (
	FieldIDNumber UniqueField = "id_number"
	FieldPhone    UniqueField = "phone"
	FieldEmail    UniqueField = "email"
)

const userColumns = "id, full_name, email, password_hash, phone, location, id_number, nationality, profile, role, created_at"

// UserRepo is the credential store.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// ExistsBy reports whether a user already holds value in field.  Empty
// values never collide because they are stored as NULL.
func (r *UserRepo) ExistsBy(ctx context.Context, field UniqueField, value string) (bool, error) {
	value = normalize(field, value)
	if value == "" {
		return false, nil
	}
	switch field {
	case FieldIDNumber, FieldPhone, FieldEmail:
	default:
		return false, fmt.Errorf("unknown unique field %q", field)
	}
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE "+string(field)+" = ? LIMIT 1", value).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Create inserts u inside a transaction and fills in ID, Role and
// CreatedAt from the stored row.  Nothing is left behind on failure.
// Unique violations come back as *DuplicateError.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (err error) {
	u.Email = normalize(FieldEmail, u.Email)
	u.Phone = normalize(FieldPhone, u.Phone)
	u.IDNumber = normalize(FieldIDNumber, u.IDNumber)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO users (full_name, email, password_hash, phone, location, id_number, nationality, profile, role)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		u.FullName, u.Email, u.PasswordHash, nullIfEmpty(u.Phone), u.Location,
		nullIfEmpty(u.IDNumber), u.Nationality, u.Profile, string(u.Role))
	if err != nil {
		return asDuplicate(err, string(FieldIDNumber), string(FieldPhone), string(FieldEmail))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanUser(tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	*u = stored
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmailOrPhone fetches the user whose email or phone equals
// identifier.  Email comparison ignores case.
func (r *UserRepo) GetByEmailOrPhone(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.User{}, ErrNotFound
	}
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? OR phone = ? ORDER BY id LIMIT 1",
		strings.ToLower(identifier), identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var phone, idNumber sql.NullString
	var role string
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &phone, &u.Location,
		&idNumber, &u.Nationality, &u.Profile, &role, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Phone = phone.String
	u.IDNumber = idNumber.String
	u.Role = model.Role(role)
	return u, nil
}

func normalize(field UniqueField, v string) string {
	v = strings.TrimSpace(v)
	if field == FieldEmail {
		v = strings.ToLower(v)
	}
	return v
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
