package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"havenly/models"
	"havenly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// actorFrom reads the identity set by the auth middleware.
func actorFrom(c *gin.Context) models.Actor {
	return models.Actor{ID: c.GetString(utils.CtxUserID), Role: c.GetString(utils.CtxRole)}
}

// optionalActor returns nil for anonymous requests.
func optionalActor(c *gin.Context) *models.Actor {
	if c.GetString(utils.CtxUserID) == "" {
		return nil
	}
	a := actorFrom(c)
	return &a
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// bindJSON decodes the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage turns binding errors into a readable sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "min", "gte", "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte", "lt":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// dateWindow reads from/to query parameters, defaulting to the next 90 days.
func dateWindow(c *gin.Context) (time.Time, time.Time, error) {
	from := utils.StartOfDay(time.Now())
	to := from.AddDate(0, 0, 90)
	if raw := c.Query("from"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, utils.NewBadRequest("from: " + err.Error())
		}
		from = d
		if c.Query("to") == "" {
			to = from.AddDate(0, 0, 90)
		}
	}
	if raw := c.Query("to"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, utils.NewBadRequest("to: " + err.Error())
		}
		to = d
	}
	return from, to, nil
}

// listResponse is the data of paginated endpoints.
type listResponse struct {
	Items      any               `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}
