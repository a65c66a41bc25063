package model

// House is a rental listing as stored in the `houses` table.  A house
// belongs to exactly one owner and only that owner may change or remove
// it.  Available flips to false as soon as a booking is accepted
// against the house.
//
// Fields:
//
//	ID          – primary key identifier.
//	OwnerID     – users.id of the listing owner.
//	Title       – short headline.
//	Description – optional long description.
//	Address     – street address.
//	Location    – city or area used for browsing.
//	Price       – asking price per stay.
//	Bedrooms    – number of bedrooms.
//	Bathrooms   – number of bathrooms.
//	Size        – optional floor area.
//	Furnished   – whether the house is furnished.
//	Available   – whether the house can still be booked.
//	ImageURL    – optional image reference.
type House struct {
	ID          uint64   `json:"id"`          // houses.id
	OwnerID     uint64   `json:"owner_id"`    // houses.owner_id
	Title       string   `json:"title"`       // houses.title
	Description *string  `json:"description"` // houses.description (nullable)
	Address     string   `json:"address"`     // houses.address
	Location    string   `json:"location"`    // houses.location
	Price       float64  `json:"price"`       // houses.price
	Bedrooms    int      `json:"bedrooms"`    // houses.bedrooms
	Bathrooms   int      `json:"bathrooms"`   // houses.bathrooms
	Size        *float64 `json:"size"`        // houses.size (nullable)
	Furnished   bool     `json:"furnished"`   // houses.furnished
	Available   bool     `json:"available"`   // houses.available
	ImageURL    *string  `json:"image_url"`   // houses.image_url (nullable)
}
