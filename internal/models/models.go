// Package models contains the request and response structures
// exchanged over the HTTP API.
package models

import "github.com/patric-chuzhbe/shortlinks/internal/user"

type ShortenRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Slug string `json:"slug,omitempty"`
}

type ShortenResponse struct {
	Result string `json:"result"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both registration and login.
// The token is also set as an HTTP-only cookie.
type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type UserURL struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	Clicks      int64  `json:"clicks"`
}

type UserUrls []UserURL

type UserUrlsResponse struct {
	Urls UserUrls `json:"urls"`
}

// ErrorResponse mirrors the error envelope of the API:
// Success is always false, Message carries a client-safe description.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// URLFormatter converts a stored short key into an absolute short URL.
type URLFormatter func(shortKey string) string
