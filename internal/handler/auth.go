package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/service"
)

// AuthHandler serves /auth.
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	if svc == nil {
		panic("nil service passed to NewAuthHandler")
	}
	return &AuthHandler{svc: svc}
}

// ----- DTOs -----

type registerReq struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	IDNumber    string `json:"id_number"`
	Nationality string `json:"nationality"`
	Profile     string `json:"profile"`
	Role        string `json:"role" validate:"role"`
}

// loginReq.Email holds either an email address or a phone number.
type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResp struct {
	Message string            `json:"message"`
	User    model.UserProfile `json:"user"`
}

type loginData struct {
	UserInfo model.UserProfile `json:"UserInfo"`
}

type loginResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Data        loginData `json:"data"`
}

// Register: create the account; the welcome email goes out asynchronously.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.svc.Register(ctx, service.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Location:    req.Location,
		IDNumber:    req.IDNumber,
		Nationality: req.Nationality,
		Profile:     req.Profile,
		Role:        req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registerResp{Message: "User registered successfully", User: p})
}

// Login: verify credentials and return a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResp{
		AccessToken: res.Token.Token,
		TokenType:   "bearer",
		ExpiresAt:   res.Token.Expires,
		Data:        loginData{UserInfo: res.User},
	})
}

// Me: profile of the token holder.
func (h *AuthHandler) Me(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.svc.Me(ctx, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
