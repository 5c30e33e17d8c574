package authapi

import "time"

type registerRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type userResponse struct {
	UserID    string    `json:"user_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type meResponse struct {
	User userResponse `json:"user"`
}
