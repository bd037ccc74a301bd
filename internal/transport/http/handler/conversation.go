package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/app"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/transport/http/response"
)

type ConversationHandler struct {
	chatService *app.ChatService
}

func NewConversationHandler(chatService *app.ChatService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService}
}

type CreateConversationRequest struct {
	UserID       string   `json:"user_id" binding:"required"`
	FirstMessage string   `json:"first_message" binding:"required,max=5000"`
	Mode         string   `json:"mode" binding:"omitempty,oneof=open_chat grounded_rag"`
	DocumentIDs  []string `json:"document_ids"`
}

type AddMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.CreateConversation(c.Request.Context(), app.CreateConversationInput{
		UserID:       req.UserID,
		FirstMessage: req.FirstMessage,
		Mode:         req.Mode,
		DocumentIDs:  req.DocumentIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput),
			errors.Is(err, app.ErrMessageEmpty),
			errors.Is(err, app.ErrDocumentsRequired):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrMessageEnqueue):
			response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create conversation failed")
		}
		return
	}

	response.Created(c, result)
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "user_id is required")
		return
	}
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)

	result, err := h.chatService.ListConversations(userID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list conversations failed")
		return
	}

	response.OK(c, result)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	conversationID := c.Param("id")

	detail, err := h.chatService.GetConversation(c.Request.Context(), conversationID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeConversationNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get conversation failed")
		}
		return
	}

	response.OK(c, detail)
}

func (h *ConversationHandler) AddMessage(c *gin.Context) {
	conversationID := c.Param("id")

	var req AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.AddMessage(c.Request.Context(), app.AddMessageInput{
		ConversationID: conversationID,
		Content:        req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeConversationNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrMessageEnqueue):
			response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "add message failed")
		}
		return
	}

	response.Created(c, result)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	conversationID := c.Param("id")

	if err := h.chatService.DeleteConversation(c.Request.Context(), conversationID); err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeConversationNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete conversation failed")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
