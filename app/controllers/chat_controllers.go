package controllers

import (
	"net/http"

	"github.com/binodghimire/agrihaat/app/resources"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/bind"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/response"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

func (c *ChatController) Send(w http.ResponseWriter, r *http.Request) {
	var in services.SendMessageInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, err := c.chat.Send(actor(r).ID, in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Created(w, resource.New(&resources.MessageResource{}, msg))
}

// Conversation returns the thread with another user, oldest first.
func (c *ChatController) Conversation(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	msgs, err := c.chat.Conversation(actor(r).ID, uintParam(r, "userID"), limit)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.MessageResource{}, msgs).Respond(w)
}

func (c *ChatController) Partners(w http.ResponseWriter, r *http.Request) {
	ids, err := c.chat.Partners(actor(r).ID)
	if err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"user_ids": ids})
}
