package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
	"github.com/eyeclinic/clinic-system/internal/core/service"
)

// tokenAuthenticator maps fixed bearer tokens to actors.
type tokenAuthenticator map[string]*domain.Actor

func (a tokenAuthenticator) VerifyAccess(_ context.Context, token string) (*ports.Identity, error) {
	actor, ok := a[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &ports.Identity{Actor: actor, SessionID: "sid-" + token}, nil
}

type fixedExams struct {
	ports.ExaminationService
	completed domain.ExaminationID
}

func (f *fixedExams) ConsultAndComplete(_ context.Context, by domain.Doctor, in ports.ConsultInput) (*domain.Examination, error) {
	if in.ExaminationID != f.completed {
		return nil, domain.ErrExaminationNotFound
	}
	return nil, domain.ErrAlreadyCompleted
}

type emptyDirectory struct{}

func (emptyDirectory) ListOptometrists(context.Context) ([]*domain.Actor, error) { return nil, nil }
func (emptyDirectory) GetOptometrist(context.Context, domain.ActorID) (*domain.Actor, error) {
	return nil, domain.ErrActorNotFound
}
func (emptyDirectory) ListDoctors(context.Context) ([]*domain.Actor, error) { return nil, nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gate, err := service.NewAccessGate(service.DefaultPolicies, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAccessGate: %v", err)
	}
	return NewRouter(Deps{
		Logger: zerolog.Nop(),
		Authenticator: tokenAuthenticator{
			"doc":     {ID: 2, Role: domain.RoleDoctor, IsActive: true},
			"patient": {ID: 3, Role: domain.RolePatient, IsActive: true, PhoneNumber: "3000000001"},
			"idle":    {ID: 4, Role: domain.RoleOptometrist},
		},
		Examinations:      &fixedExams{completed: 7},
		Directory:         emptyDirectory{},
		Gate:              gate,
		CORSOrigins:       []string{"http://localhost:3000"},
		MetricsRegisterer: prometheus.NewRegistry(),
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness without deps", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"public optometrist list", http.MethodGet, "/optometrist/api/list", "", http.StatusOK},
		{"unknown optometrist", http.MethodGet, "/optometrist/api/42", "", http.StatusNotFound},
		{"consult without token", http.MethodPost, "/doctor/api/exams/7/consult", "", http.StatusUnauthorized},
		{"consult as patient", http.MethodPost, "/doctor/api/exams/7/consult", "patient", http.StatusForbidden},
		{"consult completed exam", http.MethodPost, "/doctor/api/exams/7/consult", "doc", http.StatusConflict},
		{"consult missing exam", http.MethodPost, "/doctor/api/exams/8/consult", "doc", http.StatusNotFound},
		{"doctor list as patient", http.MethodGet, "/doctor/api/list", "patient", http.StatusOK},
		{"intake by inactive optometrist", http.MethodPost, "/optometrist/api/exams/create", "idle", http.StatusForbidden},
		{"patient dashboard as doctor", http.MethodGet, "/patient/api/dashboard", "doc", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}
