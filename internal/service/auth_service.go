package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/metrics"
	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/notify"
	"github.com/lalarentals/users-micro/internal/repository"
)

// MsgInvalidCredentials is returned for an unknown identifier and for a
// wrong password alike.
const MsgInvalidCredentials = "No Account found with the given credentials"

// uniqueChecks is the order in which registration looks for collisions.
var uniqueChecks = []struct {
	field repository.UniqueField
	msg   string
}{
	{repository.FieldIDNumber, "Id number already taken"},
	{repository.FieldPhone, "Phone number already taken"},
	{repository.FieldEmail, "Email already taken"},
}

// RegisterInput is a signup request.  Role may be empty (renter).
type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	Phone       string
	Location    string
	IDNumber    string
	Nationality string
	Profile     string
	Role        string
}

// LoginResult is a freshly issued token and the profile it belongs to.
type LoginResult struct {
	Token auth.AccessToken
	User  model.UserProfile
}

// AuthService registers and authenticates users.
type AuthService struct {
	users     UserStore
	hasher    auth.PasswordHasher
	issuer    *auth.Issuer
	ttl       time.Duration
	notifier  notify.Dispatcher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	dummyHash string
}

// NewAuthService wires the flows.  ttl is the access token lifetime.
func NewAuthService(users UserStore, hasher auth.PasswordHasher, issuer *auth.Issuer, ttl time.Duration,
	notifier notify.Dispatcher, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	// Verified against when no user matches so both login failures cost
	// one bcrypt comparison.
	dummy, err := hasher.Hash("timing-equalizer-not-a-password")
	if err != nil {
		logger.Warn("could not precompute dummy hash", "error", err)
	}
	return &AuthService{users: users, hasher: hasher, issuer: issuer, ttl: ttl,
		notifier: notifier, metrics: m, logger: logger, dummyHash: dummy}
}

// Register creates an account.  Uniqueness is checked for id number, then
// phone, then email; the first collision wins.  The welcome email is queued
// only after the user row is committed.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.UserProfile, error) {
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return model.UserProfile{}, apperr.Validation("Invalid role", map[string]string{"role": "Must be one of: owner, renter"})
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return model.UserProfile{}, apperr.Validation("Email and password are required", nil)
	}

	values := map[repository.UniqueField]string{
		repository.FieldIDNumber: in.IDNumber,
		repository.FieldPhone:    in.Phone,
		repository.FieldEmail:    in.Email,
	}
	for _, c := range uniqueChecks {
		taken, err := s.users.ExistsBy(ctx, c.field, values[c.field])
		if err != nil {
			return model.UserProfile{}, apperr.Internal(err, "check "+string(c.field))
		}
		if taken {
			s.metrics.Registration("conflict")
			return model.UserProfile{}, apperr.Conflict(string(c.field), c.msg)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.UserProfile{}, apperr.Internal(err, "hash password")
	}
	u := model.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Location:     in.Location,
		IDNumber:     in.IDNumber,
		Nationality:  in.Nationality,
		Profile:      in.Profile,
		Role:         role,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		// lost a race against a concurrent signup
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			s.metrics.Registration("conflict")
			return model.UserProfile{}, apperr.Conflict(dup.Field, conflictMessage(dup.Field))
		}
		return model.UserProfile{}, apperr.Internal(err, "create user")
	}

	s.metrics.Registration("created")
	s.notifier.Dispatch(ctx, notify.Welcome(u.Email, u.FullName))
	return u.View(), nil
}

func conflictMessage(field string) string {
	for _, c := range uniqueChecks {
		if string(c.field) == field {
			return c.msg
		}
	}
	return "Account already exists"
}

// Login authenticates identifier (email or phone) with password and issues
// an access token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	u, err := s.users.GetByEmailOrPhone(ctx, identifier)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, apperr.Internal(err, "lookup user")
		}
		s.hasher.Verify(password, s.dummyHash)
		s.metrics.Login("invalid_credentials")
		return LoginResult{}, apperr.Unauthorized(MsgInvalidCredentials)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		s.metrics.Login("invalid_credentials")
		return LoginResult{}, apperr.Unauthorized(MsgInvalidCredentials)
	}

	tok, err := s.issuer.Issue(u.Email, u.ID, u.Role, s.ttl)
	if err != nil {
		return LoginResult{}, apperr.Internal(err, "issue token")
	}
	s.metrics.Login("success")
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return LoginResult{Token: tok, User: u.View()}, nil
}

// Me returns the profile of the calling user.
func (s *AuthService) Me(ctx context.Context, who auth.Identity) (model.UserProfile, error) {
	if who.UserID == 0 {
		return model.UserProfile{}, apperr.Unauthorized("Authentication failed")
	}
	u, err := s.users.GetByID(ctx, who.UserID)
	if err != nil {
		return model.UserProfile{}, storeErr(err, "get user", "User not found", "")
	}
	return u.View(), nil
}
