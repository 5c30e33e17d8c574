package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior and cookie transport defaults.
//
// The refresh cookie is HttpOnly + Secure + SameSite=None because the
// campus web clients are served from a different origin than this API.
type Config struct {
	RefreshCookieName string
	CookiePath        string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    http.SameSite

	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth API config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	return Config{
		RefreshCookieName: envString("CAMPUS_AUTH_REFRESH_COOKIE_NAME", "refresh_token"),
		CookiePath:        envString("CAMPUS_AUTH_COOKIE_PATH", "/"),
		CookieDomain:      envString("CAMPUS_AUTH_COOKIE_DOMAIN", ""),
		CookieSecure:      envBool("CAMPUS_AUTH_COOKIE_SECURE", true),
		CookieSameSite:    http.SameSiteNoneMode,
		MaxBodyBytes:      envInt64("CAMPUS_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
	}
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
