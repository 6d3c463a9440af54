package httpx

import (
	"errors"
	"net/http"

	ledger "github.com/octane-erp/octane-erp/internal/ledger/shared"
)

// RespondError maps the ledger error taxonomy to HTTP responses. Storage
// faults reach the caller only as an opaque failure; the detail carries the
// correlation reference embedded by the service layer.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrAccountNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrDuplicateName),
		errors.Is(err, ledger.ErrAlreadyCancelled),
		errors.Is(err, ledger.ErrProtectedSystemAccount),
		errors.Is(err, ledger.ErrAccountHasEntries):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ledger.ErrInvalidAccountType),
		errors.Is(err, ledger.ErrInvalidVoucherType),
		errors.Is(err, ledger.ErrNoEntries),
		errors.Is(err, ledger.ErrMixedOrEmptyEntry),
		errors.Is(err, ledger.ErrVoucherDoesNotBalance),
		errors.Is(err, ledger.ErrMissingMappingAccount):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, ledger.ErrPersistenceFailure):
		Problem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	default:
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	}
}
