package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/service"
)

// BookingHandler serves /api/booking.
type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// stayTime accepts RFC 3339 as well as the zone-less forms web clients
// send ("2026-07-01T14:00:00", "2026-07-01T14:00", "2026-07-01").  Values
// without a zone are taken as UTC.
type stayTime struct{ time.Time }

var stayLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"}

func (t *stayTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range stayLayouts {
		if v, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", s)
}

type bookingReq struct {
	HouseID  uint64   `json:"house_id" validate:"required"`
	Checkin  stayTime `json:"checkin"`
	Checkout stayTime `json:"checkout"`
}

type bookingResp struct {
	Message string         `json:"message"`
	Booking *model.Booking `json:"booking"`
}

func (h *BookingHandler) Create(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req bookingReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.svc.Create(ctx, who, service.BookingInput{HouseID: req.HouseID, Checkin: req.Checkin.Time, Checkout: req.Checkout.Time})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingResp{Message: "Booking created successfully", Booking: b})
}

// List: every booking.  Public.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	bs, err := h.svc.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(bs))
}

// Mine: bookings made by the caller.
func (h *BookingHandler) Mine(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	bs, err := h.svc.ListMine(ctx, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(bs))
}

// UpdateStatus: ?status=approved|pending|canceled, house owner only.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
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

	b, err := h.svc.UpdateStatus(ctx, who, id, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingResp{Message: "Booking status updated successfully", Booking: b})
}

func (h *BookingHandler) Delete(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully"})
}
