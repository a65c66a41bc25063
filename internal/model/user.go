package model

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.  The database and the token
// carry the lowercase string form; everything in between uses the typed
// value.
type Role string

const (
	RoleOwner  Role = "owner"  // lists houses and approves bookings
	RoleRenter Role = "renter" // books houses
)

// ParseRole converts a wire value into a Role.  Matching is
// case-insensitive and an empty value defaults to RoleRenter, which is what
// the signup form sends when the host toggle is left untouched.  The second
// return value is false for anything outside the known set.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RoleRenter):
		return RoleRenter, true
	case string(RoleOwner):
		return RoleOwner, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleOwner || r == RoleRenter }

func (r Role) String() string { return string(r) }

// User represents an account record as stored in the `users` table.
//
// Fields:
//
//	ID           – primary key identifier.
//	FullName     – display name.
//	Email        – unique email address.
//	PasswordHash – bcrypt hash; the plaintext is never stored.
//	Phone        – unique phone number (empty when not provided).
//	Location     – free-text city or region.
//	IDNumber     – unique national id number (empty when not provided).
//	Nationality  – free text.
//	Profile      – free-text profile, usually an avatar URL.
//	Role         – owner or renter.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Phone        string    // users.phone (nullable)
	Location     string    // users.location
	IDNumber     string    // users.id_number (nullable)
	Nationality  string    // users.nationality
	Profile      string    // users.profile
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}

// UserProfile is the sanitized view of a User returned to clients.  It
// never includes the password hash.
type UserProfile struct {
	ID          uint64 `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	IDNumber    string `json:"id_number"`
	Nationality string `json:"nationality"`
	Profile     string `json:"profile"`
	Role        Role   `json:"role"`
}

// View returns the client-facing profile of u.
func (u User) View() UserProfile {
	return UserProfile{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		Location:    u.Location,
		IDNumber:    u.IDNumber,
		Nationality: u.Nationality,
		Profile:     u.Profile,
		Role:        u.Role,
	}
}
