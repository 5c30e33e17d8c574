package authapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"absent", "", ""},
		{"plain bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"padded", "  Bearer   abc.def.ghi  ", "abc.def.ghi"},
		{"wrong scheme", "Basic abc.def.ghi", ""},
		{"scheme only", "Bearer", ""},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(r); got != tc.want {
			t.Fatalf("%s: bearerToken = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	f := newFixture(t)

	var sawUser bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	f.handler.OptionalAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous request: status = %d, want 200", rec.Code)
	}
	if sawUser {
		t.Fatalf("anonymous request unexpectedly carried a user ID")
	}

	// A presented but invalid token is still rejected.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken.token")
	rec = httptest.NewRecorder()
	f.handler.OptionalAuth(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: status = %d, want 401", rec.Code)
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv()
	if cfg.RefreshCookieName != "refresh_token" {
		t.Fatalf("RefreshCookieName = %q, want refresh_token", cfg.RefreshCookieName)
	}
	if cfg.CookiePath != "/" {
		t.Fatalf("CookiePath = %q, want /", cfg.CookiePath)
	}
	if !cfg.CookieSecure {
		t.Fatalf("CookieSecure = false, want true")
	}
	if cfg.CookieSameSite != http.SameSiteNoneMode {
		t.Fatalf("CookieSameSite = %v, want None", cfg.CookieSameSite)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("CAMPUS_AUTH_REFRESH_COOKIE_NAME", "campus_rt")
	t.Setenv("CAMPUS_AUTH_COOKIE_SECURE", "false")
	t.Setenv("CAMPUS_AUTH_MAX_BODY_BYTES", "4096")

	cfg := LoadConfigFromEnv()
	if cfg.RefreshCookieName != "campus_rt" {
		t.Fatalf("RefreshCookieName = %q, want campus_rt", cfg.RefreshCookieName)
	}
	if cfg.CookieSecure {
		t.Fatalf("CookieSecure = true, want false")
	}
	if cfg.MaxBodyBytes != 4096 {
		t.Fatalf("MaxBodyBytes = %d, want 4096", cfg.MaxBodyBytes)
	}
}
