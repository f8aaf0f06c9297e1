package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eyeclinic/clinic-system/internal/api/middleware"
	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Actor, error)
	loginFn    func(ctx context.Context, phone, password string, portal domain.Role) (*ports.LoginResult, error)
	refreshFn  func(ctx context.Context, token string) (*ports.TokenPair, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Actor, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.Actor, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) Login(ctx context.Context, phone, password string, portal domain.Role) (*ports.LoginResult, error) {
	return s.loginFn(ctx, phone, password, portal)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

// newTestEcho mirrors the router's validator and error handler so handler
// errors render as they would in production.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code, msg := http.StatusInternalServerError, err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code, msg = he.Code, he.Message.(string)
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
	return e
}

// serve runs h against a JSON request and renders any returned error.
func serve(e *echo.Echo, h echo.HandlerFunc, c echo.Context) {
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func withIdentity(c echo.Context, a *domain.Actor) {
	c.Set("identity", &ports.Identity{Actor: a, SessionID: "sid-1"})
	c.Set("role", a.Role)
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestAuthHandler_RegisterPatient_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Actor, error) {
			if in.Role != domain.RolePatient || in.PhoneNumber != "0700000001" || in.Name != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Actor{ID: 5, Name: in.Name, PhoneNumber: in.PhoneNumber, Role: in.Role}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/patient/api/register",
		`{"name":"Alice","phone_number":"0700000001","password":"secret"}`), rec)
	serve(e, handler.RegisterPatient, c)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Account created successfully!" || resp.User.ID != 5 || resp.User.PhoneNumber != "0700000001" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_RegisterPatient_FormEncoded(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Actor, error) {
			return &domain.Actor{ID: 1, Name: in.Name, PhoneNumber: in.PhoneNumber, Role: in.Role}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{})

	form := url.Values{"name": {"Bob"}, "phone_number": {"0700000002"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/patient/api/register", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	serve(e, handler.RegisterPatient, e.NewContext(req, rec))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_RegisterPatient_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Actor, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}, CookieConfig{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/patient/api/register", `{"name":"Alice"}`), rec)
	serve(e, handler.RegisterPatient, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "phone_number is required") {
		t.Fatalf("expected field message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_RegisterOptometrist_Profile(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Actor, error) {
			if in.Role != domain.RoleOptometrist {
				t.Fatalf("expected optometrist role, got %s", in.Role)
			}
			if in.Profile.LicenseNumber == nil || *in.Profile.LicenseNumber != "LIC-9" || in.Profile.ExperienceYears != 4 {
				t.Fatalf("unexpected profile: %+v", in.Profile)
			}
			return &domain.Actor{ID: 3, Name: in.Name, PhoneNumber: in.PhoneNumber, Role: in.Role, Profile: in.Profile, IsActive: true}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/optometrist/api/register",
		`{"name":"Opt","phone_number":"0711","password":"pw","license_number":" LIC-9 ","experience_years":4}`), rec)
	serve(e, handler.RegisterOptometrist, c)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["license_number"] != "LIC-9" {
		t.Fatalf("expected inline profile fields, got %+v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatal("password must not be rendered")
	}
}

// ---------------------------------------------------------------------------
// Login / tokens
// ---------------------------------------------------------------------------

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	email := "d@example.com"
	exp := time.Now().Add(15 * time.Minute)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, phone, password string, portal domain.Role) (*ports.LoginResult, error) {
			if phone != "0700000001" || password != "pw" || portal != domain.RoleDoctor {
				t.Fatalf("unexpected args: %s %s %s", phone, password, portal)
			}
			return &ports.LoginResult{
				Tokens: ports.TokenPair{Access: "acc", Refresh: "ref", SessionID: "sid", AccessExpiresAt: exp},
				Actor:  &domain.Actor{ID: 9, Name: "Dr", PhoneNumber: phone, Email: &email, Role: domain.RoleDoctor},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{Secure: true})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/doctor/api/login", `{"phone_number":" 0700000001 ","password":"pw"}`), rec)
	serve(e, handler.LoginFor(domain.RoleDoctor), c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Access != "acc" || resp.Refresh != "ref" || resp.User.ID != 9 || resp.User.Role != domain.RoleDoctor {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.AccessCookie || cookies[0].Value != "acc" {
		t.Fatalf("expected access cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("cookie must be HttpOnly and Secure: %+v", cookies[0])
	}
}

func TestAuthHandler_Login_ServiceErrorReturned(t *testing.T) {
	e := newTestEcho()
	wrong := &domain.PortalError{Portal: domain.RolePatient}
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string, domain.Role) (*ports.LoginResult, error) {
			return nil, wrong
		},
	}, CookieConfig{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/patient/api/login", `{"phone_number":"1","password":"pw"}`), httptest.NewRecorder())
	err := handler.LoginFor(domain.RolePatient)(c)
	if err != wrong {
		t.Fatalf("expected the portal error to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		refreshFn: func(_ context.Context, token string) (*ports.TokenPair, error) {
			if token != "ref" {
				t.Fatalf("unexpected token %q", token)
			}
			return &ports.TokenPair{Access: "acc2", Refresh: "ref", SessionID: "sid"}, nil
		},
	}, CookieConfig{})

	rec := httptest.NewRecorder()
	serve(e, handler.Refresh, e.NewContext(jsonRequest(http.MethodPost, "/auth/refresh", `{"refresh":"ref"}`), rec))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"access":"acc2"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	var revoked string
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, sid string) error {
			revoked = sid
			return nil
		},
	}, CookieConfig{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	withIdentity(c, &domain.Actor{ID: 1, Role: domain.RolePatient, IsActive: true})
	serve(e, handler.Logout, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked != "sid-1" {
		t.Fatalf("expected session sid-1 revoked, got %q", revoked)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieConfig{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	withIdentity(c, &domain.Actor{ID: 4, Name: "Pat", PhoneNumber: "0700", Role: domain.RolePatient, IsActive: true, PasswordHash: "hash"})
	serve(e, handler.Me, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatal("password hash leaked")
	}

	rec = httptest.NewRecorder()
	serve(e, handler.Me, e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}
