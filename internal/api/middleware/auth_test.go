package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
	calls int
}

func (s *stubAuthenticator) AuthenticateWithToken(_ context.Context, token string) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.users[token], nil
}

func newStubAuthenticator() *stubAuthenticator {
	return &stubAuthenticator{users: map[string]*domain.User{
		"abc": {ID: 1, Email: "alice@example.com", Password: "hash", Token: "abc"},
	}}
}

// serve runs Authenticate → RequireUser → next and renders errors the way Echo does.
func serve(t *testing.T, authn *stubAuthenticator, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Authenticate(authn, "Token")(RequireUser()(next))
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	called := false
	rec := serve(t, newStubAuthenticator(), "Token abc", func(c echo.Context) error {
		called = true
		u := UserFrom(c)
		if u == nil || u.Email != "alice@example.com" {
			t.Fatalf("user not set: %+v", u)
		}
		if u.Password != "" {
			t.Fatalf("password hash leaked into context")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	rec := serve(t, newStubAuthenticator(), "token abc", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"bearer scheme":  "Bearer abc",
		"no token":       "Token",
		"empty token":    "Token ",
		"unknown token":  "Token nope",
		"basic scheme":   "Basic YWxpY2U6c2VjcmV0",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, newStubAuthenticator(), header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthenticate_AnonymousPassesWithoutRequireUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authn := newStubAuthenticator()

	called := false
	h := Authenticate(authn, "Token")(func(c echo.Context) error {
		called = true
		if UserFrom(c) != nil {
			t.Fatalf("unexpected user")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if authn.calls != 0 {
		t.Fatalf("authenticator called without a token")
	}
}

func TestAuthenticate_StorageFailurePropagates(t *testing.T) {
	authn := newStubAuthenticator()
	authn.err = errors.New("db down")

	rec := serve(t, authn, "Token abc", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRequireSelf(t *testing.T) {
	cases := []struct {
		method   string
		id       string
		wantCode int
	}{
		{http.MethodPut, "1", http.StatusOK},
		{http.MethodDelete, "1", http.StatusOK},
		{http.MethodPut, "2", http.StatusForbidden},
		{http.MethodDelete, "2", http.StatusForbidden},
		{http.MethodGet, "2", http.StatusOK},
		{http.MethodPut, "abc", http.StatusOK},
	}
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(tc.method, "/user/"+tc.id, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(tc.id)
		c.Set(userKey, &domain.User{ID: 1})

		h := RequireSelf()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != tc.wantCode {
			t.Fatalf("%s /user/%s: expected %d, got %d", tc.method, tc.id, tc.wantCode, rec.Code)
		}
	}
}
