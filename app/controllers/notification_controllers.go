package controllers

import (
	"net/http"
	"time"

	"github.com/binodghimire/agrihaat/app/resources"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/response"
	"github.com/binodghimire/agrihaat/pkg/sse"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: n}
}

func (c *NotificationController) Index(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	items, pagination, err := c.notifications.List(actor(r).ID, page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.NotificationResource{}, items).
		WithPagination(pagination).
		Respond(w)
}

func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := c.notifications.UnreadCount(actor(r).ID)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]int64{"unread": n})
}

func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := c.notifications.MarkRead(actor(r).ID, uintParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]string{"status": "read"})
}

func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.notifications.MarkAllRead(actor(r).ID); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]string{"status": "read"})
}

// Stream pushes the unread count over SSE so badge counters stay fresh
// without polling. Real-time payloads go over the websocket; this is the
// lightweight fallback.
func (c *NotificationController) Stream(w http.ResponseWriter, r *http.Request) {
	userID := actor(r).ID
	if userID == 0 {
		response.Unauthorized(w)
		return
	}

	stream := sse.New(w, r)
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	send := func() bool {
		n, err := c.notifications.UnreadCount(userID)
		if err != nil {
			return false
		}
		return stream.Send("unread", map[string]int64{"unread": n}) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if stream.IsClosed() || !send() {
				return
			}
		}
	}
}
