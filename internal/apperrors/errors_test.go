package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("account 3: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("bad input: %w", apperrors.ErrValidation), http.StatusBadRequest},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"constraint", apperrors.ErrConstraint, http.StatusConflict},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"integrity", apperrors.ErrBackupIntegrity, http.StatusUnprocessableEntity},
		{"too large", fmt.Errorf("%w: %w", apperrors.ErrBackupIntegrity, apperrors.ErrPayloadTooLarge), http.StatusRequestEntityTooLarge},
		{"app error code", apperrors.NewAppError(http.StatusServiceUnavailable, "busy", errors.New("x")), http.StatusServiceUnavailable},
		{"storage", fmt.Errorf("%w: disk", apperrors.ErrStorage), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.HTTPStatus(tc.err))
		})
	}
}

func TestAppErrorUnwraps(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to begin transaction", fmt.Errorf("%w: locked", apperrors.ErrStorage))

	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}
