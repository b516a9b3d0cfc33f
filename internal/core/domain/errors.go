package domain

import "errors"

var (
	// ErrUnauthorized means no valid session accompanied the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the role/ownership policy rejected the operation.
	ErrForbidden = errors.New("access forbidden")

	ErrCustomerNotFound    = errors.New("customer not found")
	ErrSTBNotFound         = errors.New("stb not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrChargeLocked rejects direct edits or deletes of an STB-linked charge;
	// the caller must go through the STB mutation path instead.
	ErrChargeLocked = errors.New("charge is linked to an STB; edit or delete the STB instead")

	// ErrValidation flags missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
)
