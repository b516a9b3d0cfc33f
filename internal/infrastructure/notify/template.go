package notify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Message body placeholders.
const (
	placeholderAmount       = "[AMOUNT]"
	placeholderCustomerName = "[CUSTOMER_NAME]"
	placeholderSTBID        = "[STB_ID]"
	placeholderAddedBy      = "[ADDED_BY]"
)

// Provider URL placeholders.
const (
	placeholderAdminNumber    = "[ADMIN_NUMBER]"
	placeholderCustomerNumber = "[CUSTOMER_NUMBER]"
	placeholderMessageBody    = "[MESSAGE_BODY]"
)

var (
	commaComma    = regexp.MustCompile(`,\s*,`)
	commaDigit    = regexp.MustCompile(`,\s*(\d)`)
	commaAmp      = regexp.MustCompile(`,\s*&`)
	commaTrailing = regexp.MustCompile(`,\s*$`)
)

// MessageData carries the substitution values for a message body template.
type MessageData struct {
	Amount       float64
	CustomerName string
	DeviceID     string
	AddedBy      string
}

// RenderMessage substitutes the body placeholders. Amounts are rendered with
// two decimal places.
func RenderMessage(tmpl string, data MessageData) string {
	return strings.NewReplacer(
		placeholderAmount, fmt.Sprintf("%.2f", data.Amount),
		placeholderCustomerName, data.CustomerName,
		placeholderSTBID, data.DeviceID,
		placeholderAddedBy, data.AddedBy,
	).Replace(tmpl)
}

// FillURL builds the provider request URL from the configured template.
// Recipient numbers and the message body are URL-encoded. When only one
// recipient placeholder is filled, commas left behind by the empty one are
// cleaned up so gateways that take comma-separated number lists still get a
// valid parameter.
func FillURL(tmpl, adminPhone, customerPhone, message string) string {
	u := tmpl
	switch {
	case adminPhone != "" && customerPhone != "":
		u = strings.ReplaceAll(u, placeholderAdminNumber, url.QueryEscape(adminPhone))
		u = strings.ReplaceAll(u, placeholderCustomerNumber, url.QueryEscape(customerPhone))
	case adminPhone != "":
		u = strings.ReplaceAll(u, placeholderAdminNumber, url.QueryEscape(adminPhone))
		u = strings.ReplaceAll(u, placeholderCustomerNumber, "")
	case customerPhone != "":
		u = strings.ReplaceAll(u, placeholderCustomerNumber, url.QueryEscape(customerPhone))
		u = strings.ReplaceAll(u, placeholderAdminNumber, "")
	}

	u = commaComma.ReplaceAllString(u, ",")
	u = commaDigit.ReplaceAllString(u, "$1")
	u = commaAmp.ReplaceAllString(u, "&")
	u = commaTrailing.ReplaceAllString(u, "")

	return strings.ReplaceAll(u, placeholderMessageBody, url.QueryEscape(message))
}
