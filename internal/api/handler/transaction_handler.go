package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// TransactionHandler exposes the raw ledger. STB-linked charges answer 409
// on update and delete; they only change through their device.
type TransactionHandler struct {
	ledger ports.LedgerService
}

func NewTransactionHandler(ledger ports.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type updateTransactionRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Note   string  `json:"note"`
}

// List handles GET /v1/transactions.
//
// @Summary      List the full ledger, newest first
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      401  {object}  map[string]string
// @Router       /v1/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	txs, err := h.ledger.ListTransactions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Update handles PUT /v1/transactions/:id. The stored sign follows the
// entry's type regardless of the sign submitted.
//
// @Summary      Update a ledger entry
// @Tags         transactions
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                    true  "Transaction ID"
// @Param        body  body  updateTransactionRequest  true  "Amount and note"
// @Success      204   "updated"
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.ledger.UpdateTransaction(c.Request().Context(), c.Param("id"), req.Amount, req.Note, actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/transactions/:id.
//
// @Summary      Delete a ledger entry
// @Tags         transactions
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction ID"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.ledger.DeleteTransaction(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
