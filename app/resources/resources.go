// Package resources defines the JSON shapes the API returns. Prices are
// stored in paisa; resources expose both the raw paisa and a formatted
// rupee string so clients never do money math on floats.
package resources

import (
	"fmt"
	"time"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/storage"
)

func rupees(paisa int64) string {
	sign := ""
	if paisa < 0 {
		sign = "-"
		paisa = -paisa
	}
	return fmt.Sprintf("%sRs. %d.%02d", sign, paisa/100, paisa%100)
}

func timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// UserResource is the public view of an account. Password and contact
// details stay out of it.
type UserResource struct{ resource.Base }

func (r *UserResource) ToArray(v interface{}) resource.Map {
	u, ok := v.(models.User)
	if !ok {
		return resource.Map{}
	}
	out := resource.Map{
		"id":       u.ID,
		"name":     u.Name,
		"role":     u.Role,
		"district": u.District,
		"province": u.Province,
	}
	if u.Avatar != "" {
		out["avatar_url"] = storage.URL(u.Avatar)
	}
	return out
}

// ProfileResource is the owner's view: adds email and phone.
type ProfileResource struct{ resource.Base }

func (r *ProfileResource) ToArray(v interface{}) resource.Map {
	u, ok := v.(models.User)
	if !ok {
		return resource.Map{}
	}
	out := (&UserResource{}).ToArray(v)
	out["email"] = u.Email
	out["phone"] = u.Phone
	out["created_at"] = timestamp(u.CreatedAt)
	return out
}

// ProductResource covers the public catalog and the farmer's own list.
type ProductResource struct{ resource.Base }

func (r *ProductResource) ToArray(v interface{}) resource.Map {
	p, ok := v.(models.Product)
	if !ok {
		return resource.Map{}
	}
	out := resource.Map{
		"id":            p.ID,
		"farmer_id":     p.FarmerID,
		"name":          p.Name,
		"description":   p.Description,
		"category":      p.Category,
		"unit":          p.Unit,
		"price_paisa":   p.PricePaisa,
		"price":         rupees(p.PricePaisa),
		"quantity":      p.Quantity,
		"min_order_qty": p.MinOrderQty,
		"status":        p.Status,
		"created_at":    timestamp(p.CreatedAt),
	}
	if p.Image != "" {
		out["image_url"] = storage.URL(p.Image)
	}
	if p.Farmer != nil {
		out["farmer"] = (&UserResource{}).ToArray(*p.Farmer)
	}
	return out
}

// OrderResource renders an order from its snapshots, so it stays stable
// even after the product is edited or archived.
type OrderResource struct{ resource.Base }

func (r *OrderResource) ToArray(v interface{}) resource.Map {
	o, ok := v.(models.Order)
	if !ok {
		return resource.Map{}
	}
	return resource.Map{
		"id":               o.ID,
		"buyer_id":         o.BuyerID,
		"farmer_id":        o.FarmerID,
		"product_id":       o.ProductID,
		"product_name":     o.ProductName,
		"unit":             o.Unit,
		"quantity":         o.Quantity,
		"unit_price_paisa": o.UnitPricePaisa,
		"total_paisa":      o.TotalPaisa,
		"total":            rupees(o.TotalPaisa),
		"status":           o.Status,
		"payment_method":   o.PaymentMethod,
		"delivery_address": o.DeliveryAddress,
		"district":         o.District,
		"province":         o.Province,
		"note":             o.Note,
		"created_at":       timestamp(o.CreatedAt),
		"updated_at":       timestamp(o.UpdatedAt),
	}
}

// ReviewResource includes the buyer's public identity when preloaded.
type ReviewResource struct{ resource.Base }

func (r *ReviewResource) ToArray(v interface{}) resource.Map {
	rev, ok := v.(models.Review)
	if !ok {
		return resource.Map{}
	}
	out := resource.Map{
		"id":         rev.ID,
		"product_id": rev.ProductID,
		"rating":     rev.Rating,
		"comment":    rev.Comment,
		"created_at": timestamp(rev.CreatedAt),
	}
	if rev.Buyer != nil {
		out["buyer"] = (&UserResource{}).ToArray(*rev.Buyer)
	}
	return out
}

// WishlistResource nests the saved product when preloaded.
type WishlistResource struct{ resource.Base }

func (r *WishlistResource) ToArray(v interface{}) resource.Map {
	item, ok := v.(models.WishlistItem)
	if !ok {
		return resource.Map{}
	}
	out := resource.Map{
		"id":         item.ID,
		"product_id": item.ProductID,
		"created_at": timestamp(item.CreatedAt),
	}
	if item.Product != nil {
		out["product"] = (&ProductResource{}).ToArray(*item.Product)
	}
	return out
}

// MessageResource is one chat line.
type MessageResource struct{ resource.Base }

func (r *MessageResource) ToArray(v interface{}) resource.Map {
	m, ok := v.(models.Message)
	if !ok {
		return resource.Map{}
	}
	out := resource.Map{
		"id":          m.ID,
		"sender_id":   m.SenderID,
		"receiver_id": m.ReceiverID,
		"body":        m.Body,
		"created_at":  timestamp(m.CreatedAt),
		"read":        m.ReadAt != nil,
	}
	if m.ProductID != 0 {
		out["product_id"] = m.ProductID
	}
	return out
}

// NotificationResource keeps the raw event payload as a JSON string the
// client can decode by type.
type NotificationResource struct{ resource.Base }

func (r *NotificationResource) ToArray(v interface{}) resource.Map {
	n, ok := v.(models.Notification)
	if !ok {
		return resource.Map{}
	}
	return resource.Map{
		"id":         n.ID,
		"type":       n.Type,
		"message":    n.Message,
		"data":       n.Data,
		"read":       n.ReadAt != nil,
		"created_at": timestamp(n.CreatedAt),
	}
}
