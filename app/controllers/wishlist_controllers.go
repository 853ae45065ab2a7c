package controllers

import (
	"net/http"

	"github.com/binodghimire/agrihaat/app/resources"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/response"
)

type WishlistController struct {
	wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

func (c *WishlistController) Index(w http.ResponseWriter, r *http.Request) {
	items, err := c.wishlist.List(actor(r).ID)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.WishlistResource{}, items).Respond(w)
}

func (c *WishlistController) Add(w http.ResponseWriter, r *http.Request) {
	if err := c.wishlist.Add(actor(r).ID, uintParam(r, "productID")); err != nil {
		fail(w, err)
		return
	}
	response.Created(w, map[string]string{"status": "saved"})
}

func (c *WishlistController) Remove(w http.ResponseWriter, r *http.Request) {
	if err := c.wishlist.Remove(actor(r).ID, uintParam(r, "productID")); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]string{"status": "removed"})
}
