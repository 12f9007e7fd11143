package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"traveltodo/internal/auth"
	"traveltodo/internal/export"
	"traveltodo/internal/models"
	"traveltodo/internal/service/chat"
)

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.chat.SendMessage(c.Request.Context(), chat.SendRequest{
		SessionID: req.SessionID,
		Text:      req.Message,
		UserID:    auth.OptionalUserID(c),
	})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, "send message", err)
		return
	}
	reply := res.Reply
	recs := reply.Recommendations
	if recs == nil {
		recs = make([]models.Recommendation, 0)
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":      res.SessionID,
		"message_id":      reply.ID,
		"message":         reply.Text,
		"intent":          reply.Intent,
		"entities":        reply.Entities,
		"recommendations": recs,
		"timestamp":       reply.CreatedAt,
	})
}

func (h *Handler) getConversation(c *gin.Context) {
	view, err := h.chat.GetConversation(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		h.conversationError(c, "get conversation", err)
		return
	}
	messages := view.Messages
	if messages == nil {
		messages = make([]models.Message, 0)
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": view.SessionID,
		"messages":   messages,
	})
}

func (h *Handler) newConversation(c *gin.Context) {
	res, err := h.chat.NewConversation(c.Request.Context(), auth.OptionalUserID(c))
	if err != nil {
		h.internalError(c, "new conversation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": res.SessionID,
		"welcome_message": gin.H{
			"id":        res.Welcome.ID,
			"message":   res.Welcome.Text,
			"timestamp": res.Welcome.CreatedAt,
		},
	})
}

func (h *Handler) listFAQ(c *gin.Context) {
	faqs, err := h.chat.FAQs(c.Request.Context())
	if err != nil {
		h.internalError(c, "list faq", err)
		return
	}
	if faqs == nil {
		faqs = make([]models.FAQ, 0)
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}

func (h *Handler) exportRecommendations(c *gin.Context) {
	sessionID := c.Param("session_id")
	recs, err := h.chat.LatestRecommendations(c.Request.Context(), sessionID)
	if err != nil {
		h.conversationError(c, "export recommendations", err)
		return
	}
	pdf, err := export.RecommendationsPDF(export.Sheet{
		SessionID:       sessionID,
		Recommendations: recs,
		GeneratedAt:     time.Now().UTC(),
	})
	if err != nil {
		h.internalError(c, "export recommendations", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="recommandations-%s.pdf"`, sessionID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) conversationError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, chat.ErrMissingSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.internalError(c, op, err)
	}
}

// internalError hides storage details from clients.
func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.log.HTTPLogger().Error().Err(err).Str("op", op).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
