package assistant

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"rasid/pkg/ctxkeys"
	"rasid/pkg/logging"
)

const maxMessageRunes = 10000

// ChatHandler exposes the assistant over HTTP. Conversation persistence is
// optional: a request may carry its own history, or a conversation_id whose
// stored history is replayed.
type ChatHandler struct {
	Conversations *ConversationStore
	Orchestrator  *Orchestrator
	Logger        logging.Logger

	// conversationLocks serializes concurrent requests to the same
	// conversation. Mutexes live for the process lifetime; the map is
	// bounded by the number of distinct conversations served. For
	// horizontal scaling, replace with pg_advisory_xact_lock.
	conversationLocks sync.Map
}

type ChatRequest struct {
	ConversationID string           `json:"conversation_id,omitempty"`
	Message        string           `json:"message"`
	History        []HistoryMessage `json:"history,omitempty"`
}

type ChatResponse struct {
	ConversationID string   `json:"conversationId,omitempty"`
	Response       string   `json:"response"`
	ToolsUsed      []string `json:"toolsUsed,omitempty"`
}

func NewChatHandler(conversations *ConversationStore, orchestrator *Orchestrator, logger logging.Logger) *ChatHandler {
	return &ChatHandler{
		Conversations: conversations,
		Orchestrator:  orchestrator,
		Logger:        logger,
	}
}

func RegisterRoutes(router gin.IRoutes, handler *ChatHandler) {
	router.POST("/chat", handler.HandleChat)
	router.GET("/conversations", handler.HandleListConversations)
	router.GET("/conversations/:id", handler.HandleGetConversation)
	router.DELETE("/conversations/:id", handler.HandleDeleteConversation)
	router.PATCH("/conversations/:id", handler.HandleUpdateConversation)
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if len([]rune(req.Message)) > maxMessageRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}

	userID, userName, ok := h.identity(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	conversationID := strings.TrimSpace(req.ConversationID)
	history := req.History

	if conversationID != "" {
		unlock := h.lockConversation(conversationID)
		defer unlock()

		stored, err := h.Conversations.GetRecentMessages(ctx, userID, conversationID, defaultMaxHistoryMessages)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		history = history[:0]
		for _, msg := range stored {
			history = append(history, HistoryMessage{Role: msg.Role, Content: msg.Content})
		}
	}

	conversationsActive.Inc()
	result := h.Orchestrator.Chat(ctx, userID, userName, req.Message, history)
	conversationsActive.Dec()

	if conversationID != "" {
		if err := h.Conversations.AddMessage(ctx, userID, conversationID, "user", req.Message, nil); err != nil {
			h.Logger.WithError(err).Warn("Failed to persist user message")
		}
		if err := h.Conversations.AddMessage(ctx, userID, conversationID, "assistant", result.Response, result.ToolsUsed); err != nil {
			h.Logger.WithError(err).Warn("Failed to persist assistant response")
		}
	}

	c.JSON(http.StatusOK, ChatResponse{
		ConversationID: conversationID,
		Response:       result.Response,
		ToolsUsed:      result.ToolsUsed,
	})
}

func (h *ChatHandler) HandleListConversations(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	limit := 50
	offset := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if limit > 200 {
		limit = 200
	}
	summaries, err := h.Conversations.ListConversations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *ChatHandler) HandleGetConversation(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	convo, err := h.Conversations.GetConversation(c.Request.Context(), userID, conversationID)
	if errors.Is(err, ErrConversationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}
	c.JSON(http.StatusOK, convo)
}

func (h *ChatHandler) HandleDeleteConversation(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	err := h.Conversations.DeleteConversation(c.Request.Context(), userID, conversationID)
	if errors.Is(err, ErrConversationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *ChatHandler) HandleUpdateConversation(c *gin.Context) {
	userID, _, ok := h.identity(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	err := h.Conversations.UpdateTitle(c.Request.Context(), userID, conversationID, truncateRunes(strings.TrimSpace(req.Title), 60))
	if errors.Is(err, ErrConversationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// lockConversation acquires the per-conversation mutex and returns its
// release func. Mutexes are never removed from the map so every request for
// a conversation contends on the same one.
func (h *ChatHandler) lockConversation(id string) func() {
	lockVal, _ := h.conversationLocks.LoadOrStore(id, &sync.Mutex{})
	mu := lockVal.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// identity resolves the authenticated user from the request context. It
// writes the error response itself when authentication is missing.
func (h *ChatHandler) identity(c *gin.Context) (int64, string, bool) {
	rawID := c.GetString(string(ctxkeys.KeyUserID))
	if rawID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, "", false
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return 0, "", false
	}
	userName := c.GetString(string(ctxkeys.KeyUserName))
	return userID, userName, true
}
