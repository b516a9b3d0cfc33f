package handler

import (
	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type customerRequest struct {
	Name    string `json:"name"    validate:"required"`
	Phone   string `json:"phone"   validate:"required"`
	Address string `json:"address" validate:"required"`
}

type addFundsRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Note   string  `json:"note"`
}

type assignSTBRequest struct {
	DeviceID     string  `json:"stb_id"        validate:"required"`
	CustomerCode string  `json:"customer_code"`
	Amount       float64 `json:"amount"        validate:"required,gt=0"`
	Note         string  `json:"note"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listCustomersResponse struct {
	Data       []ports.CustomerSummary `json:"data"`
	Pagination paginationResponse      `json:"pagination"`
}

type customerDetailResponse struct {
	Customer     *domain.Customer      `json:"customer"`
	STBs         []*domain.STB         `json:"stbs"`
	Transactions []*domain.Transaction `json:"transactions"`
	Balance      float64               `json:"balance"`
}
