package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients. The bid rejection codes map one-to-one
// onto admission rule failures so callers always learn the specific reason.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeSelfBid           = "SELF_BID"
	CodeAuctionClosed     = "AUCTION_CLOSED"
	CodeInsufficientBid   = "INSUFFICIENT_BID"
	CodeTransientConflict = "TRANSIENT_CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewSelfBid rejects an auction author bidding on their own auction.
func NewSelfBid() error {
	return NewDomainError(CodeSelfBid, "auction authors may not bid on their own auctions", http.StatusBadRequest, nil)
}

// NewAuctionClosed rejects bids on auctions past their deadline or already
// flagged closed.
func NewAuctionClosed() error {
	return NewDomainError(CodeAuctionClosed, "auction is closed for bidding", http.StatusBadRequest, nil)
}

// NewInsufficientBid rejects amounts below the current highest bid plus the
// auction's minimal increment. The computed floor travels in the details so
// callers know what a valid bid would have been.
func NewInsufficientBid(minimalAllowed string) error {
	return NewDomainError(
		CodeInsufficientBid,
		fmt.Sprintf("bid must be at least %s", minimalAllowed),
		http.StatusBadRequest,
		map[string]any{"minimal_allowed": minimalAllowed},
	)
}

// NewTransientConflict is surfaced after bounded internal retries of a bid
// submission keep aborting. Unlike the validation errors the identical
// request may be retried by the caller.
func NewTransientConflict() error {
	return NewDomainError(CodeTransientConflict, "auction is receiving concurrent bids, please retry", http.StatusConflict, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

func MapError(err error) error {
	return ToDomainError(err)
}
