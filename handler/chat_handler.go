package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinantan/document-chat-assistant/middleware"
	"github.com/sinantan/document-chat-assistant/service"
	"github.com/sinantan/document-chat-assistant/types"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError(err.Error()))
		return
	}

	response, err := h.chatService.Chat(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, response)
}

func (h *ChatHandler) HandleListConversations(c *gin.Context) {
	skip, limit := pagination(c)
	conversations, err := h.chatService.ListConversations(c.Request.Context(), middleware.UserID(c), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, conversations)
}

func (h *ChatHandler) HandleConversationMessages(c *gin.Context) {
	skip, limit := pagination(c)
	response, err := h.chatService.GetConversationMessages(
		c.Request.Context(), c.Param("id"), middleware.UserID(c), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, response)
}

func (h *ChatHandler) HandleDeleteConversation(c *gin.Context) {
	if err := h.chatService.DeleteConversation(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
