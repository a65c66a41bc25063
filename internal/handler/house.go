package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/service"
)

// HouseHandler serves /api/house.
type HouseHandler struct {
	svc *service.HouseService
}

func NewHouseHandler(svc *service.HouseService) *HouseHandler {
	if svc == nil {
		panic("nil service passed to NewHouseHandler")
	}
	return &HouseHandler{svc: svc}
}

// houseReq is used for both create and full update.
type houseReq struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Address     string   `json:"address" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Bedrooms    *int     `json:"bedrooms" validate:"required,gte=0"`
	Bathrooms   *int     `json:"bathrooms" validate:"required,gte=0"`
	Size        *float64 `json:"size" validate:"omitempty,gte=0"`
	Furnished   bool     `json:"furnished"`
	Available   *bool    `json:"available"`
	ImageURL    *string  `json:"image_url"`
}

func (r houseReq) input() service.HouseInput {
	return service.HouseInput{
		Title:       r.Title,
		Description: r.Description,
		Address:     r.Address,
		Location:    r.Location,
		Price:       *r.Price,
		Bedrooms:    *r.Bedrooms,
		Bathrooms:   *r.Bathrooms,
		Size:        r.Size,
		Furnished:   r.Furnished,
		Available:   r.Available,
		ImageURL:    r.ImageURL,
	}
}

type houseResp struct {
	Message string       `json:"message"`
	House   *model.House `json:"house"`
}

type noCustomersResp struct {
	Message string         `json:"message"`
	Houses  []*model.House `json:"houses"`
}

func (h *HouseHandler) Create(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req houseReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	house, err := h.svc.Create(ctx, who, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, houseResp{Message: "House created successfully", House: house})
}

// List: every available house.  Public.
func (h *HouseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	houses, err := h.svc.ListAvailable(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(houses))
}

// Get: one house by id.  Public.
func (h *HouseHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	house, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, house)
}

// Mine: the caller's own listings.
func (h *HouseHandler) Mine(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	houses, err := h.svc.ListMine(ctx, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, houses)
}

func (h *HouseHandler) Update(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req houseReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	house, err := h.svc.Update(ctx, who, id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, houseResp{Message: "House updated successfully", House: house})
}

func (h *HouseHandler) Delete(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, who, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "House deleted successfully"})
}

// Customers: who booked the caller's houses, grouped per house.
func (h *HouseHandler) Customers(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.svc.Customers(ctx, who)
	if err != nil {
		return err
	}
	if len(res.Groups) == 0 {
		return c.JSON(http.StatusOK, noCustomersResp{Message: "No bookings found for your houses", Houses: res.Houses})
	}
	return c.JSON(http.StatusOK, res.Groups)
}

// nonNil keeps empty lists as [] rather than null on the wire.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
