package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/repository"
)

type UserHandler struct {
	Store  repository.Storage
	Logger *zap.Logger
}

func NewUserHandler(store repository.Storage, logger *zap.Logger) *UserHandler {
	return &UserHandler{Store: store, Logger: logger}
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return message(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return message(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, h.Logger, "get user", err)
	}
	return c.JSON(http.StatusOK, u)
}
