package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", fmt.Errorf("%w: medication \"A\" has unknown eye \"x\"", domain.ErrValidation), http.StatusBadRequest, "medication \"A\" has unknown eye \"x\""},
		{"duplicate phone", fmt.Errorf("register: %w", domain.ErrDuplicatePhone), http.StatusBadRequest, "this phone number is already registered"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"session", domain.ErrSessionNotFound, http.StatusUnauthorized, "session expired or revoked"},
		{"portal", &domain.PortalError{Portal: domain.RoleOptometrist}, http.StatusForbidden, "Unauthorized. This portal is for optometrists only."},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"not found", fmt.Errorf("consult: %w", domain.ErrExaminationNotFound), http.StatusNotFound, "examination not found"},
		{"completed", domain.ErrAlreadyCompleted, http.StatusConflict, "examination already completed"},
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}
