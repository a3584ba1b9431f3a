package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/model"
	"github.com/iliyamo/forwarding-portal/internal/repository"
	"github.com/iliyamo/forwarding-portal/internal/schema"
)

type ContactHandler struct {
	Store  repository.Storage
	Logger *zap.Logger
}

func NewContactHandler(store repository.Storage, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{Store: store, Logger: logger}
}

// Create handles POST /api/contact.
func (h *ContactHandler) Create(c echo.Context) error {
	var req schema.ContactRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	contact, err := h.Store.CreateContact(ctx, model.NewContact{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Type:          req.Type,
		PackageNumber: req.PackageNumber,
		Message:       req.Message,
	})
	if err != nil {
		return internalError(c, h.Logger, "create contact", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Message sent. We will contact you within 24 hours.",
		"contact": contact,
	})
}

// List handles GET /api/contacts.
func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	contacts, err := h.Store.GetContacts(ctx)
	if err != nil {
		return internalError(c, h.Logger, "list contacts", err)
	}
	return c.JSON(http.StatusOK, contacts)
}
