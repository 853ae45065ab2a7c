package controllers

import (
	"net/http"

	"github.com/binodghimire/agrihaat/app/resources"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/bind"
	"github.com/binodghimire/agrihaat/pkg/middleware"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Register(in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Created(w, map[string]interface{}{
		"user":          resource.New(&resources.ProfileResource{}, user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Login(in.Email, in.Password)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"user":          resource.New(&resources.ProfileResource{}, user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Refresh(in.RefreshToken)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.UserIDFromCtx(r.Context())
	user, err := c.auth.Profile(id)
	if err != nil {
		fail(w, err)
		return
	}
	resource.New(&resources.ProfileResource{}, user).Respond(w)
}
