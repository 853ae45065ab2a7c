// Package controllers holds the HTTP layer. Controllers bind input,
// call a service, and translate the result into a response; no business
// rules live here.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/middleware"
	"github.com/binodghimire/agrihaat/pkg/response"
	"github.com/binodghimire/agrihaat/pkg/session"
)

// uintParam reads a route parameter like {id} as a uint. Zero means
// missing or malformed.
func uintParam(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func pageParams(r *http.Request) (page, perPage int) {
	return queryInt(r, "page", 1), queryInt(r, "per_page", 20)
}

// actor builds the calling user from the auth context. ID zero means
// the request is anonymous.
func actor(r *http.Request) models.User {
	id, _ := middleware.UserIDFromCtx(r.Context())
	role, _ := middleware.RoleFromCtx(r.Context())
	return models.User{Model: gorm.Model{ID: id}, Role: role}
}

// cartOwner keys carts by user when logged in, by session otherwise, so
// a guest's cart survives until login.
func cartOwner(r *http.Request) string {
	if id, ok := middleware.UserIDFromCtx(r.Context()); ok && id != 0 {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	if s := session.FromCtx(r); s != nil {
		return "guest:" + s.ID()
	}
	return ""
}

// fail maps a service error onto an HTTP response.
func fail(w http.ResponseWriter, err error) {
	var ve services.ValidationError
	if errors.As(err, &ve) {
		response.ValidationError(w, ve.Fields)
		return
	}
	var stock services.InsufficientStockError
	if errors.As(err, &stock) {
		response.Conflict(w, stock.Error())
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrReviewNotEligible):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyReviewed):
		response.Conflict(w, err.Error())
	case errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrSelfTrade),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrInvalidTransition):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error("request failed", "error", err.Error())
		response.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}
