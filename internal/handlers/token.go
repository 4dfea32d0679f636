package handlers

import (
	"context"
	"net/http"

	"github.com/movielog/movielog/internal/jwt"
)

// Tokener extracts and parses bearer tokens for protected handlers.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// ErrorResponse represents a generic error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// authorize resolves the calling user id from the request's bearer token.
func authorize(tokener Tokener, r *http.Request) (int64, error) {
	ctx := r.Context()

	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		return 0, err
	}

	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}
