package domain

import "time"

// SMSFlags toggles notification dispatch per event and recipient.
type SMSFlags struct {
	SendAddFundCustomer bool `json:"send_add_fund_customer"`
	SendAddFundAdmin    bool `json:"send_add_fund_admin"`
	SendAddSTBCustomer  bool `json:"send_add_stb_customer"`
	SendAddSTBAdmin     bool `json:"send_add_stb_admin"`
}

// SMSTemplates holds the message bodies. Placeholders [AMOUNT],
// [CUSTOMER_NAME], [STB_ID] and [ADDED_BY] are substituted at dispatch time.
type SMSTemplates struct {
	AddFundCustomer string `json:"add_fund_customer"`
	AddFundAdmin    string `json:"add_fund_admin"`
	AddSTBCustomer  string `json:"add_stb_customer"`
	AddSTBAdmin     string `json:"add_stb_admin"`
}

// Settings is the singleton configuration document governing SMS behaviour.
// The store keeps exactly one of these; duplicates are collapsed to the
// newest by the startup repair routine.
type Settings struct {
	ID            string       `json:"id"`
	SMSEnabled    bool         `json:"sms_enabled"`
	// SMSURLTemplate is the provider request URL with [ADMIN_NUMBER],
	// [CUSTOMER_NUMBER] and [MESSAGE_BODY] placeholders.
	SMSURLTemplate string       `json:"sms_url_template"`
	AdminPhone     string       `json:"admin_phone"`
	Flags          SMSFlags     `json:"sms_flags"`
	Templates      SMSTemplates `json:"sms_templates"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Fallback message bodies used when the corresponding template is empty.
const (
	DefaultAddFundCustomerTemplate = "Your account has been credited with [AMOUNT]. Thank you."
	DefaultAddFundAdminTemplate    = "AddFund: [AMOUNT] added for [CUSTOMER_NAME] by [ADDED_BY]."
	DefaultAddSTBCustomerTemplate  = "A new STB has been added. Charge: [AMOUNT]."
	DefaultAddSTBAdminTemplate     = "STB Added: [STB_ID] for [CUSTOMER_NAME] by [ADDED_BY]. Charge: [AMOUNT]."
)
