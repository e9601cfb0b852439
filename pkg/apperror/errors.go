package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with an HTTP status, a
// machine-readable code and a human-readable message
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrUnauthorized   = &AppError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Unauthorized"}
	ErrForbidden      = &AppError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "Forbidden"}
	ErrInternalServer = &AppError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "Internal server error"}

	ErrInvalidCredentials = &AppError{Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Status: http.StatusUnauthorized, Code: "TOKEN_EXPIRED", Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Status: http.StatusUnauthorized, Code: "INVALID_TOKEN", Message: "Invalid token"}

	// Invoice lifecycle errors
	ErrFactureNotFound = &AppError{Status: http.StatusNotFound, Code: "FACTURE_NOT_FOUND", Message: "Facture introuvable"}
	ErrNoLignes        = &AppError{Status: http.StatusBadRequest, Code: "NO_LIGNES", Message: "La facture ne contient aucune ligne"}
	ErrAlreadyPaid     = &AppError{Status: http.StatusBadRequest, Code: "ALREADY_PAID", Message: "La facture est déjà payée"}
	ErrInvalidStatus   = &AppError{Status: http.StatusBadRequest, Code: "INVALID_STATUS", Message: "Statut de facture incompatible avec cette opération"}
	ErrMissingEmail    = &AppError{Status: http.StatusBadRequest, Code: "MISSING_EMAIL", Message: "Aucune adresse email de destinataire disponible"}
	ErrMissingPhone    = &AppError{Status: http.StatusBadRequest, Code: "MISSING_PHONE", Message: "Aucun numéro de téléphone de destinataire disponible"}

	// Quote lifecycle errors
	ErrDevisNotFound          = &AppError{Status: http.StatusNotFound, Code: "DEVIS_NOT_FOUND", Message: "Devis introuvable"}
	ErrStatusLocked           = &AppError{Status: http.StatusBadRequest, Code: "STATUS_LOCKED", Message: "Un devis accepté ne peut plus changer de statut"}
	ErrInstallmentNotEligible = &AppError{Status: http.StatusBadRequest, Code: "INSTALLMENT_NOT_ELIGIBLE", Message: "Cette échéance ne peut pas encore être facturée"}

	ErrClientNotFound       = &AppError{Status: http.StatusNotFound, Code: "CLIENT_NOT_FOUND", Message: "Client introuvable"}
	ErrPaymentTermsNotFound = &AppError{Status: http.StatusNotFound, Code: "PAYMENT_TERMS_NOT_FOUND", Message: "Conditions de paiement introuvables"}
)

// New creates a new application error
func New(status int, code, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    "STORE_ERROR",
		Message: err.Error(),
	}
}
