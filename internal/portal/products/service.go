package products

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured indicates the product source dependency has not been provided.
var ErrNotConfigured = errors.New("products service not configured")

// Service exposes the product catalogue shown on the dashboard.
type Service interface {
	// GetProducts returns every product visible to the caller.
	GetProducts(ctx context.Context, token string) ([]Product, error)
}

// Product is a catalogue entry. Price is in whole New Taiwan dollars.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// APIError carries a failed fetch; Message is safe to display verbatim.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("products: backend error (%d): %s", e.Status, e.Message)
}

// UserMessage returns the backend message for display.
func (e *APIError) UserMessage() string {
	return e.Message
}

// unavailable is the fallback message when a failure carries no text.
const unavailable = "無法載入商品資料"

func newAPIError(status int, message string) *APIError {
	if message == "" {
		message = unavailable
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &APIError{Status: status, Message: message}
}
