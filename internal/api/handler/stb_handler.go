package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// STBHandler handles HTTP requests on devices that already exist. Assignment
// lives on the customer routes; every mutation here keeps the linked charge
// in sync.
type STBHandler struct {
	ledger ports.LedgerService
}

func NewSTBHandler(ledger ports.LedgerService) *STBHandler {
	return &STBHandler{ledger: ledger}
}

type updateSTBRequest struct {
	DeviceID     string  `json:"stb_id"        validate:"required"`
	CustomerCode string  `json:"customer_code"`
	Amount       float64 `json:"amount"        validate:"required,gt=0"`
	Note         string  `json:"note"`
}

// List handles GET /v1/stbs.
//
// @Summary      List all devices with customer and creator names
// @Tags         stbs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.STB
// @Failure      401  {object}  map[string]string
// @Router       /v1/stbs [get]
func (h *STBHandler) List(c echo.Context) error {
	stbs, err := h.ledger.ListSTBs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stbs)
}

// Update handles PUT /v1/stbs/:id. The linked charge is rewritten so it
// still carries the negated amount.
//
// @Summary      Update a device and its linked charge
// @Tags         stbs
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string            true  "STB ID"
// @Param        body  body  updateSTBRequest  true  "Device details"
// @Success      204   "updated"
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/stbs/{id} [put]
func (h *STBHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateSTBRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.UpdateSTB(c.Request().Context(), ports.UpdateSTBInput{
		STBID:        c.Param("id"),
		DeviceID:     req.DeviceID,
		CustomerCode: req.CustomerCode,
		Amount:       req.Amount,
		Note:         req.Note,
	}, actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/stbs/:id. Removes the linked charge first, so
// the balance forgets the device entirely.
//
// @Summary      Delete a device and its linked charge
// @Tags         stbs
// @Security     BearerAuth
// @Param        id  path  string  true  "STB ID"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/stbs/{id} [delete]
func (h *STBHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.ledger.DeleteSTB(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
