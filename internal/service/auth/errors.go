package auth

import "errors"

// Token validation failure modes. The API layer maps all of these to 401
// but distinguishes them in logs.
var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates a token used before its nbf claim.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates no token was supplied where one is required.
	ErrMissingToken = errors.New("authentication token is missing")
)
