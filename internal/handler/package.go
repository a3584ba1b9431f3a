package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/model"
	"github.com/iliyamo/forwarding-portal/internal/repository"
	"github.com/iliyamo/forwarding-portal/internal/schema"
)

// Cache scopes for the two cached tracking views.
const (
	CacheScopeTrack    = "track"
	CacheScopeProgress = "progress"
)

// TrackingCache drops cached views of a package after it changes.
type TrackingCache interface {
	Invalidate(ctx context.Context, id string, scopes ...string) error
}

// PackageHandler serves package listing, tracking and status changes.
type PackageHandler struct {
	Store  repository.Storage
	Cache  TrackingCache
	Logger *zap.Logger
}

func NewPackageHandler(store repository.Storage, cache TrackingCache, logger *zap.Logger) *PackageHandler {
	return &PackageHandler{Store: store, Cache: cache, Logger: logger}
}

// TrackingParam reads the :trackingId path parameter in its stored form.
// The leading '#' may be sent URL-encoded or left out.
func TrackingParam(c echo.Context) string {
	raw := c.Param("trackingId")
	if s, err := url.PathUnescape(raw); err == nil {
		raw = s
	}
	return repository.NormalizeTrackingID(strings.TrimSpace(raw))
}

func parseUserID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	return id, err == nil
}

// ListByUser handles GET /api/packages/user/:userId.  An unknown user or
// one without packages gets an empty list.
func (h *PackageHandler) ListByUser(c echo.Context) error {
	userID, ok := parseUserID(c)
	if !ok {
		return message(c, http.StatusBadRequest, "invalid user id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	pkgs, err := h.Store.GetPackagesByUserID(ctx, userID)
	if err != nil {
		return internalError(c, h.Logger, "list packages", err)
	}
	return c.JSON(http.StatusOK, pkgs)
}

// Track handles GET /api/packages/track/:trackingId.
func (h *PackageHandler) Track(c echo.Context) error {
	p, err := h.lookup(c)
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Progress handles GET /api/packages/track/:trackingId/progress.
func (h *PackageHandler) Progress(c echo.Context) error {
	p, err := h.lookup(c)
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"trackingId": p.TrackingID,
		"status":     p.Status,
		"steps":      model.Progress(p),
	})
}

func (h *PackageHandler) lookup(c echo.Context) (model.Package, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()
	return h.Store.GetPackageByTrackingID(ctx, TrackingParam(c))
}

func (h *PackageHandler) lookupError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return message(c, http.StatusNotFound, "package not found")
	}
	return internalError(c, h.Logger, "track package", err)
}

// UpdateStatus handles PATCH /api/packages/:trackingId/status.  The body
// names the target status and optionally the date it was reached.
func (h *PackageHandler) UpdateStatus(c echo.Context) error {
	var req schema.StatusRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	trackingID := TrackingParam(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Store.UpdatePackageStatus(ctx, trackingID, model.Status(req.Status), req.Date)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return message(c, http.StatusNotFound, "package not found")
	case errors.Is(err, repository.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "invalid data",
			"errors": []schema.FieldError{{
				Path:    "status",
				Message: "must be one of: received_us, transit, arrived, ready, delivered",
			}},
		})
	case errors.Is(err, repository.ErrIllegalTransition):
		return message(c, http.StatusConflict, err.Error())
	case err != nil:
		return internalError(c, h.Logger, "update package status", err)
	}

	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx, p.TrackingID, CacheScopeTrack, CacheScopeProgress); err != nil {
			h.Logger.Warn("tracking cache invalidation failed", zap.String("tracking_id", p.TrackingID), zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /api/packages/user/:userId, the intake of a package
// for an existing customer.
func (h *PackageHandler) Create(c echo.Context) error {
	userID, ok := parseUserID(c)
	if !ok || userID == 0 {
		return message(c, http.StatusBadRequest, "invalid user id")
	}
	var req schema.PackageRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return message(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, h.Logger, "intake: lookup user", err)
	}
	p, err := h.Store.CreatePackage(ctx, model.NewPackage{
		UserID:        userID,
		Description:   req.Description,
		Weight:        req.Weight,
		EstimatedDate: req.EstimatedDate,
		Cost:          req.Cost,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return message(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, h.Logger, "intake: create package", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "package registered", "package": p})
}
