package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/metrics"
	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/notify"
	"github.com/lalarentals/users-micro/internal/repository"
	"github.com/lalarentals/users-micro/internal/service"
	"github.com/lalarentals/users-micro/internal/testutil"
)

var testKey = auth.SigningKey{Secret: "service-test-secret", Algorithm: "HS256"}

type outbox struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (o *outbox) Dispatch(_ context.Context, msg notify.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
}

func (o *outbox) messages() []notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Message(nil), o.sent...)
}

type fixture struct {
	auth     *service.AuthService
	houses   *service.HouseService
	bookings *service.BookingService
	verifier *auth.Verifier
	outbox   *outbox
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	users := repository.NewUserRepo(db)
	houses := repository.NewHouseRepo(db)
	bookings := repository.NewBookingRepo(db)

	iss, err := auth.NewIssuer(testKey)
	require.NoError(t, err)
	ver, err := auth.NewVerifier(testKey)
	require.NoError(t, err)

	box := &outbox{}
	m := metrics.New()
	return fixture{
		auth:     service.NewAuthService(users, auth.NewBcryptHasher(bcrypt.MinCost), iss, time.Hour, box, m, nil),
		houses:   service.NewHouseService(houses, bookings),
		bookings: service.NewBookingService(bookings, houses, users, box, m, nil),
		verifier: ver,
		outbox:   box,
		metrics:  m,
	}
}

// register creates an account and returns the identity its login token
// carries.
func (f fixture) register(t *testing.T, name, email, phone string, role model.Role) auth.Identity {
	t.Helper()
	ctx := context.Background()
	_, err := f.auth.Register(ctx, service.RegisterInput{
		FullName: name, Email: email, Password: "secret-pw", Phone: phone, Role: string(role),
	})
	require.NoError(t, err)
	res, err := f.auth.Login(ctx, email, "secret-pw")
	require.NoError(t, err)
	who, err := f.verifier.Verify(res.Token.Token)
	require.NoError(t, err)
	return who
}

func (f fixture) listHouse(t *testing.T, owner auth.Identity, title string) *model.House {
	t.Helper()
	h, err := f.houses.Create(context.Background(), owner, service.HouseInput{
		Title: title, Address: "1 Main St", Location: "Kigali", Price: 100, Bedrooms: 2, Bathrooms: 1,
	})
	require.NoError(t, err)
	return h
}
