package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/api/metrics"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customer accounts and the two
// account-scoped ledger mutations (deposits and STB assignment).
type CustomerHandler struct {
	customers ports.CustomerService
	ledger    ports.LedgerService
}

func NewCustomerHandler(customers ports.CustomerService, ledger ports.LedgerService) *CustomerHandler {
	return &CustomerHandler{customers: customers, ledger: ledger}
}

// List handles GET /v1/customers.
//
// @Summary      List customers with balances and device counts
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 25, max 100)"
// @Success      200    {object}  listCustomersResponse
// @Failure      401    {object}  map[string]string
// @Router       /v1/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.customers.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listCustomersResponse{
		Data: result.Customers,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/customers/:id.
//
// @Summary      Get a customer with devices, ledger and balance
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  customerDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	detail, err := h.customers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customerDetailResponse{
		Customer:     detail.Customer,
		STBs:         detail.STBs,
		Transactions: detail.Transactions,
		Balance:      detail.Balance,
	})
}

// Create handles POST /v1/customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Router       /v1/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customer, err := h.customers.Create(c.Request().Context(), ports.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}, actor)
	if err != nil {
		return err
	}

	metrics.CustomersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /v1/customers/:id.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string           true  "Customer ID"
// @Param        body  body  customerRequest  true  "Customer details"
// @Success      204   "updated"
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.customers.Update(c.Request().Context(), c.Param("id"), ports.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}, actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/customers/:id. The delete cascades to the
// customer's transactions and STBs.
//
// @Summary      Delete a customer and everything they own
// @Tags         customers
// @Security     BearerAuth
// @Param        id  path  string  true  "Customer ID"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.customers.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// AddFunds handles POST /v1/customers/:id/funds.
//
// @Summary      Record a deposit on a customer's account
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Customer ID"
// @Param        body  body      addFundsRequest true  "Deposit amount and note"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/customers/{id}/funds [post]
func (h *CustomerHandler) AddFunds(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addFundsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.ledger.AddFunds(c.Request().Context(), c.Param("id"), req.Amount, req.Note, actor)
	if err != nil {
		return err
	}

	metrics.FundsAddedTotal.Inc()
	return c.JSON(http.StatusCreated, tx)
}

// AssignSTB handles POST /v1/customers/:id/stbs. Creates the device and its
// linked charge as one command.
//
// @Summary      Assign an STB to a customer and bill the charge
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Customer ID"
// @Param        body  body      assignSTBRequest true  "Device and charge details"
// @Success      201   {object}  domain.STB
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/customers/{id}/stbs [post]
func (h *CustomerHandler) AssignSTB(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignSTBRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stb, err := h.ledger.AssignSTB(c.Request().Context(), ports.AssignSTBInput{
		CustomerID:   c.Param("id"),
		DeviceID:     req.DeviceID,
		CustomerCode: req.CustomerCode,
		Amount:       req.Amount,
		Note:         req.Note,
	}, actor)
	if err != nil {
		return err
	}

	metrics.STBsAssignedTotal.Inc()
	return c.JSON(http.StatusCreated, stb)
}
