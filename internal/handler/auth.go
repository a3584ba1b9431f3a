package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/model"
	"github.com/iliyamo/forwarding-portal/internal/notify"
	"github.com/iliyamo/forwarding-portal/internal/repository"
	"github.com/iliyamo/forwarding-portal/internal/schema"
	"github.com/iliyamo/forwarding-portal/internal/utils"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Store      repository.Storage
	Notifier   notify.Sender
	Logger     *zap.Logger
	BcryptCost int

	// dummyHash is verified against when the email is unknown so both
	// failed-login paths do the same bcrypt work.
	dummyHash string
}

func NewAuthHandler(store repository.Storage, n notify.Sender, logger *zap.Logger, bcryptCost int) (*AuthHandler, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	dummy, err := utils.HashPassword(hex.EncodeToString(buf), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{Store: store, Notifier: n, Logger: logger, BcryptCost: bcryptCost, dummyHash: dummy}, nil
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req schema.RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Store.GetUserByEmail(ctx, req.Email); err == nil {
		return message(c, http.StatusBadRequest, "a user with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return internalError(c, h.Logger, "register: lookup email", err)
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return internalError(c, h.Logger, "register: hash password", err)
	}
	u, err := h.Store.CreateUser(ctx, model.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Plan:         req.Plan,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return message(c, http.StatusBadRequest, "a user with this email already exists")
		}
		return internalError(c, h.Logger, "register: create user", err)
	}

	h.notify(c, u, notify.EventRegistered)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created. A confirmation email has been sent.",
		"user":    u,
	})
}

// Login handles POST /api/auth/login.  Unknown email and wrong password
// produce the same 401 response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req schema.LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Store.GetUserByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.VerifyPassword(h.dummyHash, req.Password)
		return message(c, http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		return internalError(c, h.Logger, "login: lookup email", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return message(c, http.StatusUnauthorized, "invalid credentials")
	}

	h.notify(c, u, notify.EventLogin)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Signed in. A confirmation has been sent to your email.",
		"user":    u,
	})
}

// notify reports the event; delivery failures never fail the request.
func (h *AuthHandler) notify(c echo.Context, u model.User, ev notify.Event) {
	if h.Notifier == nil {
		return
	}
	if err := h.Notifier.Notify(c.Request().Context(), u, ev); err != nil {
		h.Logger.Warn("notification failed", zap.String("event", string(ev)), zap.Uint64("user_id", u.ID), zap.Error(err))
	}
}
