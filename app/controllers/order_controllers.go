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

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	cart     *services.CartService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService, cart *services.CartService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders, cart: cart}
}

// Checkout places an order. On success the bought line is dropped from
// the buyer's cart; replays of the same attempt_id return the original
// order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	buyerID, _ := middleware.UserIDFromCtx(r.Context())
	order, err := c.checkout.PlaceOrder(buyerID, in)
	if err != nil {
		fail(w, err)
		return
	}

	if owner := cartOwner(r); owner != "" {
		c.cart.RemoveItem(owner, order.ProductID) //nolint:errcheck
	}
	response.Created(w, resource.New(&resources.OrderResource{}, order))
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	me := actor(r)
	order, err := c.orders.Find(me.ID, me.Role, uintParam(r, "id"))
	if err != nil {
		fail(w, err)
		return
	}
	resource.New(&resources.OrderResource{}, order).Respond(w)
}

// Mine lists the calling buyer's orders, newest first.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	me := actor(r)
	page, perPage := pageParams(r)
	items, pagination, err := c.orders.ListForBuyer(me.ID, page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.OrderResource{}, items).
		WithPagination(pagination).
		Respond(w)
}

// Received lists orders on the calling farmer's products.
func (c *OrderController) Received(w http.ResponseWriter, r *http.Request) {
	me := actor(r)
	page, perPage := pageParams(r)
	items, pagination, err := c.orders.ListForFarmer(me.ID, page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.OrderResource{}, items).
		WithPagination(pagination).
		Respond(w)
}

// UpdateStatus moves an order along its workflow. Who may move what is
// decided in the service.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status" validate:"required,in=confirmed,shipped,completed,cancelled"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	me := actor(r)
	order, err := c.orders.Transition(me.ID, me.Role, uintParam(r, "id"), in.Status)
	if err != nil {
		fail(w, err)
		return
	}
	resource.New(&resources.OrderResource{}, order).Respond(w)
}
