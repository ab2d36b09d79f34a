// File: utils/constants.go
package utils

// RevokedTokenPrefix is the prefix used for Redis keys of logged-out tokens.
const RevokedTokenPrefix = "revoked:"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Context keys set by the auth middleware.
const (
	CtxUserID      = "userID"
	CtxRole        = "role"
	CtxUser        = "user"
	CtxToken       = "token"
	CtxTokenExpiry = "tokenExpiry"
)
