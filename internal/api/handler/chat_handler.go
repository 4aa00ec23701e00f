package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plumon/roleplay-chat/internal/core/domain"
	"github.com/plumon/roleplay-chat/internal/core/ports"
)

// ChatHandler handles HTTP requests for chat sessions and messages.
type ChatHandler struct {
	service ports.ChatService
}

func NewChatHandler(service ports.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type createChatRequest struct {
	RoleID string `json:"role_id" validate:"required"`
	Title  string `json:"title,omitempty"`
}

type sendMessageRequest struct {
	SenderType string `json:"sender_type" validate:"required,oneof=user"`
	Content    string `json:"content" validate:"required"`
}

// Create starts a new chat session against an active role. The session's
// first message, the AI greeting at order 0, is written atomically with it.
//
// @Summary      Start a chat session
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createChatRequest  true  "Session parameters"
// @Success      201   {object}  domain.Chat
// @Failure      404   {object}  map[string]string
// @Router       /chats/ [post]
func (h *ChatHandler) Create(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	chat, err := h.service.CreateChat(c.Request().Context(), ports.CreateChatInput{
		UserID:    user.ID,
		PersonaID: req.RoleID,
		Title:     req.Title,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, chat)
}

// List returns the caller's chats, newest first.
//
// @Summary      List chat sessions
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Chat
// @Router       /chats/ [get]
func (h *ChatHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	chats, err := h.service.ListChats(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if chats == nil {
		chats = []*domain.Chat{}
	}
	return c.JSON(http.StatusOK, chats)
}

// Messages returns a chat's full message ledger in order.
//
// @Summary      List a chat's messages
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat id"
// @Success      200  {array}   domain.Message
// @Failure      404  {object}  map[string]string
// @Router       /chats/{id}/messages [get]
func (h *ChatHandler) Messages(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	messages, err := h.service.GetMessages(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage runs one chat turn and returns the persisted AI reply.
//
// @Summary      Send a message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Chat id"
// @Param        body  body      sendMessageRequest  true  "User message"
// @Success      201   {object}  domain.Message
// @Failure      404   {object}  map[string]string
// @Router       /chats/{id}/message [post]
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	reply, err := h.service.SendMessage(c.Request().Context(), c.Param("id"), user.ID, req.Content)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, reply)
}
