// Package main provides a CI-friendly smoke test for the campus auth API.
//
// It validates, against a running server:
//   - registration (or 409 when the user already exists)
//   - login -> access token + refresh cookie
//   - authenticated GET /auth/users/me
//   - refresh rotation (new cookie, old cookie rejected on replay)
//   - logout idempotence and refresh revocation
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8080", "Base URL of the campus server")
		userID   = flag.String("user", "smoke-user", "User ID to register and log in with")
		password = flag.String("password", "smoke-password-1", "Password for the smoke user")
		timeout  = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if _, err := url.ParseRequestURI(*baseURL); err != nil {
		fatalf("invalid -url: %v", err)
	}

	root := context.Background()
	c := &client{base: strings.TrimRight(*baseURL, "/"), http: &http.Client{}, verbose: *verbose}

	// Register; an existing user from a previous run is fine.
	status, body := c.postJSON(root, *timeout, "/auth/users", map[string]string{
		"user_id": *userID, "password": *password,
	}, "")
	switch status {
	case http.StatusCreated:
		c.logf("registered %s", *userID)
	case http.StatusConflict:
		c.logf("user %s already exists", *userID)
	default:
		fatalf("register: unexpected status %d: %s", status, body)
	}

	// Login.
	status, body = c.postJSON(root, *timeout, "/auth/users/token", map[string]string{
		"user_id": *userID, "password": *password,
	}, "")
	if status != http.StatusOK {
		fatalf("login: unexpected status %d: %s", status, body)
	}
	tok := decodeToken(body)
	cookie := c.lastRefreshCookie
	if cookie == "" {
		fatalf("login: no refresh cookie set")
	}
	c.logf("logged in, access token expires in %ds", tok.ExpiresIn)

	// Authenticated /me.
	status, body = c.get(root, *timeout, "/auth/users/me", tok.AccessToken)
	if status != http.StatusOK {
		fatalf("me: unexpected status %d: %s", status, body)
	}

	// Refresh rotates the cookie.
	status, body = c.postJSON(root, *timeout, "/auth/users/refresh", nil, cookie)
	if status != http.StatusOK {
		fatalf("refresh: unexpected status %d: %s", status, body)
	}
	rotated := c.lastRefreshCookie
	if rotated == "" || rotated == cookie {
		fatalf("refresh: cookie was not rotated")
	}
	c.logf("refresh rotated the cookie")

	// Replaying the consumed cookie must fail with INVALID_REFRESH_TOKEN.
	status, body = c.postJSON(root, *timeout, "/auth/users/refresh", nil, cookie)
	if status != http.StatusUnauthorized {
		fatalf("replayed refresh: unexpected status %d: %s", status, body)
	}
	if code := decodeErrorCode(body); code != "INVALID_REFRESH_TOKEN" {
		fatalf("replayed refresh: error code %q", code)
	}
	c.logf("replayed refresh rejected")

	// Logout twice; both succeed.
	for i := 0; i < 2; i++ {
		status, body = c.postJSON(root, *timeout, "/auth/users/logout", nil, rotated)
		if status != http.StatusOK {
			fatalf("logout #%d: unexpected status %d: %s", i+1, status, body)
		}
	}

	// The revoked cookie no longer refreshes.
	status, body = c.postJSON(root, *timeout, "/auth/users/refresh", nil, rotated)
	if status != http.StatusUnauthorized {
		fatalf("refresh after logout: unexpected status %d: %s", status, body)
	}

	fmt.Printf("OK: user=%s expires_in=%d\n", *userID, tok.ExpiresIn)
}

type client struct {
	base    string
	http    *http.Client
	verbose bool

	lastRefreshCookie string
}

func (c *client) postJSON(parent context.Context, timeout time.Duration, path string, payload any, refreshCookie string) (int, []byte) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			fatalf("marshal %s: %v", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		fatalf("request %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if refreshCookie != "" {
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshCookie})
	}

	return c.do(req, path)
}

func (c *client) get(parent context.Context, timeout time.Duration, path, accessToken string) (int, []byte) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		fatalf("request %s: %v", path, err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.do(req, path)
}

func (c *client) do(req *http.Request, path string) (int, []byte) {
	resp, err := c.http.Do(req)
	if err != nil {
		fatalf("%s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		fatalf("%s: read body: %v", path, err)
	}

	for _, ck := range resp.Cookies() {
		if ck.Name == "refresh_token" {
			c.lastRefreshCookie = ck.Value
		}
	}

	return resp.StatusCode, raw
}

func (c *client) logf(format string, args ...any) {
	if c.verbose {
		fmt.Printf(format+"\n", args...)
	}
}

func decodeToken(body []byte) tokenResponse {
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		fatalf("decode token response: %v (%s)", err, body)
	}
	return tok
}

func decodeErrorCode(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("decode error response: %v (%s)", err, body)
	}
	return resp.Error.Code
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "auth-smoke: "+format+"\n", args...)
	os.Exit(1)
}
