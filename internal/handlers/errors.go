package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialchat/gateway/internal/errs"
)

// httpError converts a sentinel-wrapped domain error into the matching HTTP
// response. Unknown errors become a 500 without leaking their message.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, errs.ErrNotFriends):
		return echo.NewHTTPError(http.StatusForbidden, "users are not friends")
	case errors.Is(err, errs.ErrWeakCredential):
		return echo.NewHTTPError(http.StatusBadRequest, "credential does not meet requirements")
	case errors.Is(err, errs.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid input")
	case errors.Is(err, errs.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
