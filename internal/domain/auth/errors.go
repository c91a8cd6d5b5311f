package auth

import "net/http"

// Error is a user-facing auth failure. Every instance maps 1:1 to an HTTP
// status and a stable error_code; internal causes are never carried here,
// they stay in the logs.
type Error struct {
	Status     int    `json:"-"`
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	Resolution string `json:"resolution,omitempty"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	ErrInvalidToken = &Error{
		Status:     http.StatusForbidden,
		Code:       "invalid_token",
		Message:    "Token is invalid or expired",
		Resolution: "Please get new token",
	}
	// ErrRevokedToken stays registered for callers that need to name the
	// condition, but the guard answers a revoked token with ErrInvalidToken
	// so the wire never distinguishes revoked from malformed.
	ErrRevokedToken = &Error{
		Status:     http.StatusUnauthorized,
		Code:       "token_revoked",
		Message:    "Token is invalid or has been revoked",
		Resolution: "Please get new token",
	}
	ErrAccessTokenRequired = &Error{
		Status:     http.StatusForbidden,
		Code:       "access_token_needed",
		Message:    "Please provide a valid access token",
		Resolution: "Please get an access token",
	}
	ErrRefreshTokenRequired = &Error{
		Status:     http.StatusForbidden,
		Code:       "refresh_token_needed",
		Message:    "Please provide a valid refresh token",
		Resolution: "Please get a refresh token",
	}
	ErrUserAlreadyExists = &Error{
		Status:  http.StatusConflict,
		Code:    "user_exists",
		Message: "User with email already exists",
	}
	ErrInvalidCredentials = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_email_or_password",
		Message: "Invalid email or password",
	}
	ErrInsufficientPermission = &Error{
		Status:  http.StatusForbidden,
		Code:    "permission_denied",
		Message: "You are not allowed to perform this action",
	}
	ErrAccountNotVerified = &Error{
		Status:     http.StatusForbidden,
		Code:       "account_not_verified",
		Message:    "This account has not been verified",
		Resolution: "Please check your email for verification details",
	}
	ErrUserNotFound = &Error{
		Status:  http.StatusNotFound,
		Code:    "user_not_found",
		Message: "User not found",
	}
	ErrPasswordMismatch = &Error{
		Status:  http.StatusBadRequest,
		Code:    "passwords_do_not_match",
		Message: "Passwords do not match",
	}
	ErrServer = &Error{
		Status:  http.StatusInternalServerError,
		Code:    "server_error",
		Message: "Oops.. something went wrong",
	}
)
