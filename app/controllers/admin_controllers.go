package controllers

import (
	"net/http"

	"github.com/binodghimire/agrihaat/app/resources"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/response"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.admin.Stats()
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, stats)
}

func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	items, pagination, err := c.admin.Users(r.URL.Query().Get("role"), page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.ProfileResource{}, items).
		WithPagination(pagination).
		Respond(w)
}
