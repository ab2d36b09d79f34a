package user

import (
	"errors"
	"regexp"
	"strings"

	"havenly/database"
	"havenly/utils"
)

var (
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return utils.NewBadRequest("password must be at least 8 characters long")
	}
	if len(pw) > 72 {
		return utils.NewBadRequest("password must be at most 72 characters long")
	}
	if !hasUpper.MatchString(pw) {
		return utils.NewBadRequest("password must include at least one uppercase letter")
	}
	if !hasLower.MatchString(pw) {
		return utils.NewBadRequest("password must include at least one lowercase letter")
	}
	if !hasNumber.MatchString(pw) {
		return utils.NewBadRequest("password must include at least one number")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// notFound maps a repository miss onto a 404 and anything else onto a 500.
func notFound(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return utils.NewNotFound(msg)
	}
	return utils.NewInternal(msg, err)
}
