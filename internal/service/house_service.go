package service

import (
	"context"
	"strings"
	"time"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/model"
)

// HouseInput carries the editable fields of a house.  Update replaces all
// of them; a nil Available keeps the current value (true on create).
type HouseInput struct {
	Title       string
	Description *string
	Address     string
	Location    string
	Price       float64
	Bedrooms    int
	Bathrooms   int
	Size        *float64
	Furnished   bool
	Available   *bool
	ImageURL    *string
}

func (in HouseInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "This field is required"
	}
	if in.Price < 0 {
		fields["price"] = "Must be greater than or equal to 0"
	}
	if in.Bedrooms < 0 {
		fields["bedrooms"] = "Must be greater than or equal to 0"
	}
	if in.Bathrooms < 0 {
		fields["bathrooms"] = "Must be greater than or equal to 0"
	}
	if len(fields) > 0 {
		return apperr.Validation("Invalid house", fields)
	}
	return nil
}

func (in HouseInput) apply(h *model.House) {
	h.Title = strings.TrimSpace(in.Title)
	h.Description = in.Description
	h.Address = in.Address
	h.Location = in.Location
	h.Price = in.Price
	h.Bedrooms = in.Bedrooms
	h.Bathrooms = in.Bathrooms
	h.Size = in.Size
	h.Furnished = in.Furnished
	if in.Available != nil {
		h.Available = *in.Available
	}
	h.ImageURL = in.ImageURL
}

// HouseSummary is the short form of a house shown next to its bookings.
type HouseSummary struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
}

// Renter identifies who made a booking.
type Renter struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerBooking is one booking as seen by the house owner.
type CustomerBooking struct {
	BookingID uint64              `json:"booking_id"`
	User      Renter              `json:"user"`
	Status    model.BookingStatus `json:"status"`
	Checkin   time.Time           `json:"checkin"`
	Checkout  time.Time           `json:"checkout"`
	CreatedAt time.Time           `json:"created_at"`
}

// HouseCustomers groups the bookings of one house.
type HouseCustomers struct {
	House    HouseSummary      `json:"house"`
	Bookings []CustomerBooking `json:"bookings"`
}

// Customers is the owner's view of who booked their houses.  Groups is
// empty when none of Houses has a booking.
type Customers struct {
	Houses []*model.House
	Groups []HouseCustomers
}

// HouseService manages listings.
type HouseService struct {
	houses   HouseStore
	bookings BookingStore
}

func NewHouseService(houses HouseStore, bookings BookingStore) *HouseService {
	return &HouseService{houses: houses, bookings: bookings}
}

// Create lists a new house owned by the caller.
func (s *HouseService) Create(ctx context.Context, who auth.Identity, in HouseInput) (*model.House, error) {
	if who.UserID == 0 {
		return nil, apperr.Unauthorized("Authentication failed")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	h := &model.House{OwnerID: who.UserID, Available: true}
	in.apply(h)
	if err := s.houses.Create(ctx, h); err != nil {
		return nil, apperr.Internal(err, "create house")
	}
	return h, nil
}

// ListAvailable returns the houses that can still be booked.
func (s *HouseService) ListAvailable(ctx context.Context) ([]*model.House, error) {
	hs, err := s.houses.ListAvailable(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list houses")
	}
	return hs, nil
}

// Get returns one house by id.
func (s *HouseService) Get(ctx context.Context, id uint64) (*model.House, error) {
	h, err := s.houses.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get house", "House not found", "")
	}
	return h, nil
}

// ListMine returns the caller's houses.  Having none is reported as
// NotFound.
func (s *HouseService) ListMine(ctx context.Context, who auth.Identity) ([]*model.House, error) {
	hs, err := s.houses.ListByOwner(ctx, who.UserID)
	if err != nil {
		return nil, apperr.Internal(err, "list own houses")
	}
	if len(hs) == 0 {
		return nil, apperr.NotFound("House not found")
	}
	return hs, nil
}

// Update replaces the editable fields of house id.  Only the owner may
// do so; anyone else gets Forbidden and the house is left as it was.
func (s *HouseService) Update(ctx context.Context, who auth.Identity, id uint64, in HouseInput) (*model.House, error) {
	const denied = "Not authorized to update this house"
	h, err := s.houses.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get house", "House not found", denied)
	}
	if err := auth.AuthorizeHouse(who, *h, auth.ActionUpdate); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.apply(h)
	if err := s.houses.Update(ctx, h, who.UserID); err != nil {
		return nil, storeErr(err, "update house", "House not found", denied)
	}
	return h, nil
}

// Delete removes house id and its bookings.  Only the owner may do so.
func (s *HouseService) Delete(ctx context.Context, who auth.Identity, id uint64) error {
	const denied = "Not authorized to delete this house"
	h, err := s.houses.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "get house", "House not found", denied)
	}
	if err := auth.AuthorizeHouse(who, *h, auth.ActionDelete); err != nil {
		return err
	}
	return storeErr(s.houses.DeleteByIDAndOwner(ctx, id, who.UserID), "delete house", "House not found", denied)
}

// Customers lists, for each house the caller owns, who booked it.  An
// owner without houses gets NotFound.
func (s *HouseService) Customers(ctx context.Context, who auth.Identity) (Customers, error) {
	hs, err := s.houses.ListByOwner(ctx, who.UserID)
	if err != nil {
		return Customers{}, apperr.Internal(err, "list own houses")
	}
	if len(hs) == 0 {
		return Customers{}, apperr.NotFound("No houses found")
	}
	rbs, err := s.bookings.ListForOwner(ctx, who.UserID)
	if err != nil {
		return Customers{}, apperr.Internal(err, "list customers")
	}
	out := Customers{Houses: hs}
	if len(rbs) == 0 {
		return out, nil
	}

	byHouse := make(map[uint64][]CustomerBooking, len(hs))
	for _, rb := range rbs {
		b := rb.Booking
		byHouse[b.HouseID] = append(byHouse[b.HouseID], CustomerBooking{
			BookingID: b.ID,
			User:      Renter{ID: b.UserID, Name: rb.RenterName, Email: rb.RenterEmail},
			Status:    b.Status,
			Checkin:   b.Checkin,
			Checkout:  b.Checkout,
			CreatedAt: b.CreatedAt,
		})
	}
	for _, h := range hs {
		bookings := byHouse[h.ID]
		if bookings == nil {
			bookings = []CustomerBooking{}
		}
		out.Groups = append(out.Groups, HouseCustomers{
			House:    HouseSummary{ID: h.ID, Title: h.Title, Location: h.Location, Price: h.Price},
			Bookings: bookings,
		})
	}
	return out, nil
}
