package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runCORS(t *testing.T, allowed []string, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	handler := CORS(allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(method, "/api/therapists", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestCORSAllowedOrigin(t *testing.T) {
	rec, reached := runCORS(t, []string{"https://chiromo.co.ke"}, http.MethodGet, "https://chiromo.co.ke")
	if !reached {
		t.Error("request should reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://chiromo.co.ke" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSOriginMatchIsCaseInsensitive(t *testing.T) {
	rec, _ := runCORS(t, []string{"https://Chiromo.co.ke"}, http.MethodGet, "https://chiromo.CO.KE")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://chiromo.CO.KE" {
		t.Errorf("Allow-Origin = %q, want the request's own origin echoed", got)
	}
}

func TestCORSUnknownOriginGetsNoAllowHeader(t *testing.T) {
	rec, reached := runCORS(t, []string{"https://chiromo.co.ke"}, http.MethodGet, "https://evil.example.com")
	if !reached {
		t.Error("non-preflight requests still pass through")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty for an unknown origin", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	rec, reached := runCORS(t, []string{"https://chiromo.co.ke"}, http.MethodOptions, "https://chiromo.co.ke")
	if reached {
		t.Error("preflight must not reach the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight missing Allow-Methods header")
	}
}
