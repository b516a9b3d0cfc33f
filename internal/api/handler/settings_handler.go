package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// SettingsHandler reads and updates the singleton configuration.
type SettingsHandler struct {
	settings ports.SettingsService
}

func NewSettingsHandler(settings ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type smsFlagsRequest struct {
	SendAddFundCustomer bool `json:"send_add_fund_customer"`
	SendAddFundAdmin    bool `json:"send_add_fund_admin"`
	SendAddSTBCustomer  bool `json:"send_add_stb_customer"`
	SendAddSTBAdmin     bool `json:"send_add_stb_admin"`
}

type smsTemplatesRequest struct {
	AddFundCustomer string `json:"add_fund_customer"`
	AddFundAdmin    string `json:"add_fund_admin"`
	AddSTBCustomer  string `json:"add_stb_customer"`
	AddSTBAdmin     string `json:"add_stb_admin"`
}

type updateSettingsRequest struct {
	SMSEnabled     bool                `json:"sms_enabled"`
	SMSURLTemplate string              `json:"sms_url_template"`
	AdminPhone     string              `json:"admin_phone"`
	Flags          smsFlagsRequest     `json:"sms_flags"`
	Templates      smsTemplatesRequest `json:"sms_templates"`
}

// Get handles GET /v1/settings.
//
// @Summary      Read the SMS configuration
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Settings
// @Failure      401  {object}  map[string]string
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settings.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Update handles PUT /v1/settings. ADMIN only.
//
// @Summary      Replace the SMS configuration
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSettingsRequest  true  "Settings"
// @Success      200   {object}  domain.Settings
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	settings, err := h.settings.Update(c.Request().Context(), ports.SettingsInput{
		SMSEnabled:     req.SMSEnabled,
		SMSURLTemplate: req.SMSURLTemplate,
		AdminPhone:     req.AdminPhone,
		Flags: domain.SMSFlags{
			SendAddFundCustomer: req.Flags.SendAddFundCustomer,
			SendAddFundAdmin:    req.Flags.SendAddFundAdmin,
			SendAddSTBCustomer:  req.Flags.SendAddSTBCustomer,
			SendAddSTBAdmin:     req.Flags.SendAddSTBAdmin,
		},
		Templates: domain.SMSTemplates{
			AddFundCustomer: req.Templates.AddFundCustomer,
			AddFundAdmin:    req.Templates.AddFundAdmin,
			AddSTBCustomer:  req.Templates.AddSTBCustomer,
			AddSTBAdmin:     req.Templates.AddSTBAdmin,
		},
	}, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}
