package controllers

import (
	"net/http"

	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/bind"
	"github.com/binodghimire/agrihaat/pkg/response"
)

type CartController struct {
	cart    *services.CartService
	catalog *services.CatalogService
}

func NewCartController(cart *services.CartService, catalog *services.CatalogService) *CartController {
	return &CartController{cart: cart, catalog: catalog}
}

func cartPayload(cart services.Cart) map[string]interface{} {
	return map[string]interface{}{
		"items":       cart.Items,
		"item_count":  cart.ItemCount(),
		"total_paisa": cart.Total(),
	}
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	owner := cartOwner(r)
	if owner == "" {
		response.Unauthorized(w)
		return
	}
	response.Success(w, cartPayload(c.cart.Get(owner)))
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	owner := cartOwner(r)
	if owner == "" {
		response.Unauthorized(w)
		return
	}

	var in struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity"   validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Find(in.ProductID)
	if err != nil {
		fail(w, err)
		return
	}

	cart, err := c.cart.AddItem(owner, product, in.Quantity)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, cartPayload(cart))
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	owner := cartOwner(r)
	if owner == "" {
		response.Unauthorized(w)
		return
	}

	var in struct {
		Quantity int `json:"quantity" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.cart.UpdateQuantity(owner, uintParam(r, "productID"), in.Quantity)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, cartPayload(cart))
}

func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	owner := cartOwner(r)
	if owner == "" {
		response.Unauthorized(w)
		return
	}
	cart, err := c.cart.RemoveItem(owner, uintParam(r, "productID"))
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, cartPayload(cart))
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	owner := cartOwner(r)
	if owner == "" {
		response.Unauthorized(w)
		return
	}
	if err := c.cart.Clear(owner); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, cartPayload(services.Cart{}))
}
