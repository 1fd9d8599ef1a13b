package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/schema"
)

func orderSchema(t *testing.T) *schema.Schema {
	t.Helper()
	r, err := schema.Load()
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	return r.MustGet("order")
}

func runSchema(t *testing.T, s *schema.Schema, body string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := RequireSchema(s)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireSchema_Valid(t *testing.T) {
	body := `{"user":1.0,"createdAt":"2001-01-01T00:00:00Z","paid":true}`
	called := false
	rec := runSchema(t, orderSchema(t), body, func(c echo.Context) error {
		called = true
		var in struct {
			User      int64  `json:"user"`
			CreatedAt string `json:"createdAt"`
			Paid      bool   `json:"paid"`
		}
		if err := json.Unmarshal(BodyFrom(c), &in); err != nil {
			t.Fatalf("validated body does not decode into integers: %v", err)
		}
		if in.User != 1 || in.CreatedAt != "2001-01-01T00:00:00Z" || !in.Paid {
			t.Fatalf("validated body not forwarded: %s", BodyFrom(c))
		}
		return c.NoContent(http.StatusOK)
	})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next with 200, got called=%v code=%d", called, rec.Code)
	}
}

func TestRequireSchema_Rejections(t *testing.T) {
	cases := map[string]struct {
		body  string
		error string
	}{
		"empty body":       {"", "missing request body"},
		"not json":         {"{", "request body is not valid JSON"},
		"missing fields":   {"{}", "request body validation failed"},
		"unknown property": {`{"user":1,"createdAt":"2001-01-01T00:00:00Z","paid":true,"x":1}`, "request body validation failed"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runSchema(t, orderSchema(t), tc.body, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var resp validationResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.error {
				t.Fatalf("expected error %q, got %q", tc.error, resp.Error)
			}
		})
	}
}

func TestRequireSchema_DetailsListFields(t *testing.T) {
	rec := runSchema(t, orderSchema(t), `{"user":"x","createdAt":"2001-01-01T00:00:00Z","paid":true}`, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	var resp validationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Details) != 1 || !strings.HasPrefix(resp.Details[0], "instance.user: ") {
		t.Fatalf("unexpected details: %v", resp.Details)
	}
}

func TestRequireValidID(t *testing.T) {
	cases := map[string]int{
		"1":                    http.StatusOK,
		"42":                   http.StatusOK,
		"0":                    http.StatusBadRequest,
		"-3":                   http.StatusBadRequest,
		"+3":                   http.StatusBadRequest,
		"bogus":                http.StatusBadRequest,
		"1.5":                  http.StatusBadRequest,
		"99999999999999999999": http.StatusBadRequest,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(raw)

			h := RequireValidID()(func(c echo.Context) error {
				if IDFrom(c) < 1 {
					t.Fatalf("id not parsed")
				}
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != want {
				t.Fatalf("id %q: expected %d, got %d", raw, want, rec.Code)
			}
		})
	}
}
