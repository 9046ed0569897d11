package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rasid/internal/audit"
	"rasid/internal/store"
	"rasid/pkg/llm"
	"rasid/pkg/logging"
)

const (
	defaultMaxToolRounds      = 5
	defaultMaxHistoryMessages = 18

	auditActionChat  = "smart_rasid.chat"
	auditActionError = "smart_rasid.error"
	auditCategory    = "system"

	// Shown when the turn completed but the model produced no text.
	fallbackEmptyResponse = "عذراً، لم أتمكن من معالجة طلبك. حاول مرة أخرى."
	// Shown when any stage of the turn failed.
	fallbackError = "عذراً، حدث خطأ أثناء معالجة طلبك. يرجى المحاولة مرة أخرى."
)

// HistoryMessage is one prior turn supplied by the client.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult is the outcome of one assistant turn. Response is always a
// user-presentable Arabic string.
type ChatResult struct {
	Response  string   `json:"response"`
	ToolsUsed []string `json:"toolsUsed,omitempty"`
}

// StatsSource supplies the dashboard aggregates injected into the system
// prompt each turn.
type StatsSource interface {
	GetDashboardStats(ctx context.Context) (store.DashboardStats, error)
}

// Orchestrator runs the bounded tool-calling conversation loop. It is the
// error boundary for the whole turn: every failure becomes a fallback
// response, never an error to the caller.
type Orchestrator struct {
	provider   llm.Provider
	executor   *Executor
	stats      StatsSource
	audit      *audit.Logger
	logger     logging.Logger
	tools      []llm.Tool
	maxRounds  int
	maxHistory int
}

type OrchestratorConfig struct {
	Provider   llm.Provider
	Executor   *Executor
	Stats      StatsSource
	Audit      *audit.Logger
	Logger     logging.Logger
	MaxRounds  int
	MaxHistory int
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistoryMessages
	}
	tools := make([]llm.Tool, 0, len(ToolDefinitions))
	for _, def := range ToolDefinitions {
		tools = append(tools, llm.Tool{
			Name:        def.Function.Name,
			Description: def.Function.Description,
			Parameters:  def.Function.Parameters,
		})
	}
	return &Orchestrator{
		provider:   cfg.Provider,
		executor:   cfg.Executor,
		stats:      cfg.Stats,
		audit:      cfg.Audit,
		logger:     cfg.Logger,
		tools:      tools,
		maxRounds:  maxRounds,
		maxHistory: maxHistory,
	}
}

// Chat runs one assistant turn for the given user. History is the client's
// view of the conversation so far; only the trailing window is forwarded.
func (o *Orchestrator) Chat(ctx context.Context, userID int64, userName, message string, history []HistoryMessage) ChatResult {
	result, err := o.run(ctx, userName, message, history)
	if err != nil {
		if o.logger != nil {
			o.logger.WithError(err).WithField("user_id", userID).Error("Assistant turn failed")
		}
		chatTurnsTotal.WithLabelValues("error").Inc()
		o.logAudit(userID, userName, auditActionError, fmt.Sprintf("Error: %v | Query: %s", err, truncateRunes(message, 100)))
		return ChatResult{Response: fallbackError}
	}

	chatTurnsTotal.WithLabelValues("success").Inc()
	toolsSummary := "none"
	if len(result.ToolsUsed) > 0 {
		toolsSummary = strings.Join(result.ToolsUsed, ", ")
	}
	o.logAudit(userID, userName, auditActionChat, fmt.Sprintf(
		"Query: %s | Tools: %s | Response length: %d",
		truncateRunes(message, 100), toolsSummary, len(result.Response)))
	return result
}

func (o *Orchestrator) run(ctx context.Context, userName, message string, history []HistoryMessage) (ChatResult, error) {
	if o.provider == nil {
		return ChatResult{}, errors.New("llm provider is required")
	}

	stats, err := o.stats.GetDashboardStats(ctx)
	if err != nil {
		return ChatResult{}, fmt.Errorf("load dashboard stats: %w", err)
	}

	messages := make([]llm.Message, 0, o.maxHistory+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: BuildSystemPrompt(userName, stats),
	})
	messages = append(messages, trimHistory(history, o.maxHistory)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	var toolsUsed []string
	var content string
	rounds := 0

	for {
		pending, text, err := o.complete(ctx, messages)
		if err != nil {
			return ChatResult{}, err
		}
		content = text

		if len(pending) == 0 {
			break
		}
		if rounds >= o.maxRounds {
			// Round ceiling reached with tool calls still pending. Drop
			// them and answer with whatever text the model produced.
			if o.logger != nil {
				o.logger.WithField("pending_tools", len(pending)).Warn("Tool round ceiling reached")
			}
			break
		}
		rounds++

		normalizeToolCallIDs(pending)
		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   content,
			ToolCalls: pending,
		})
		messages = append(messages, o.executeAll(ctx, pending)...)
		for _, call := range pending {
			toolsUsed = append(toolsUsed, call.Name)
		}
	}

	chatRoundsPerTurn.Observe(float64(rounds))
	if strings.TrimSpace(content) == "" {
		content = fallbackEmptyResponse
	}
	return ChatResult{Response: content, ToolsUsed: toolsUsed}, nil
}

// complete makes one gateway call and drains the stream, returning the
// accumulated tool calls and text.
func (o *Orchestrator) complete(ctx context.Context, messages []llm.Message) ([]llm.ToolCall, string, error) {
	start := time.Now()
	stream, err := o.provider.Complete(ctx, messages, o.tools)
	if err != nil {
		llmCallsTotal.WithLabelValues("error").Inc()
		llmDuration.Observe(time.Since(start).Seconds())
		return nil, "", fmt.Errorf("llm gateway: %w", err)
	}
	defer stream.Close()

	var content strings.Builder
	var pending []llm.ToolCall
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			llmCallsTotal.WithLabelValues("error").Inc()
			llmDuration.Observe(time.Since(start).Seconds())
			return nil, "", fmt.Errorf("llm stream: %w", err)
		}
		if chunk.Content != "" {
			content.WriteString(chunk.Content)
		}
		if len(chunk.ToolCalls) > 0 {
			pending = mergeToolCalls(pending, chunk.ToolCalls)
		}
	}
	llmCallsTotal.WithLabelValues("success").Inc()
	llmDuration.Observe(time.Since(start).Seconds())
	return pending, content.String(), nil
}

// executeAll runs the round's tool calls concurrently, at most three at a
// time, and returns the tool messages in the order the model issued them.
func (o *Orchestrator) executeAll(ctx context.Context, pending []llm.ToolCall) []llm.Message {
	results := make([]string, len(pending))
	var wg sync.WaitGroup
	sem := make(chan struct{}, 3)

	for i, call := range pending {
		wg.Add(1)
		go func(idx int, c llm.ToolCall) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			results[idx] = o.executor.Execute(ctx, c.Name, c.Arguments)
			toolDuration.WithLabelValues(c.Name).Observe(time.Since(start).Seconds())
			status := "success"
			if strings.HasPrefix(results[idx], `{"error"`) {
				status = "error"
			}
			toolCallsTotal.WithLabelValues(c.Name, status).Inc()
		}(i, call)
	}
	wg.Wait()

	messages := make([]llm.Message, 0, len(pending))
	for i, call := range pending {
		messages = append(messages, llm.Message{
			Role:       llm.RoleTool,
			Content:    results[i],
			Name:       call.Name,
			ToolCallID: call.ID,
		})
	}
	return messages
}

func (o *Orchestrator) logAudit(userID int64, userName, action, details string) {
	if o.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.audit.Log(ctx, userID, action, details, auditCategory, userName); err != nil && o.logger != nil {
		o.logger.WithError(err).Warn("Failed to write audit entry")
	}
}

// trimHistory keeps the trailing window of user and assistant turns. Other
// roles are dropped; clients only ever replay those two.
func trimHistory(history []HistoryMessage, max int) []llm.Message {
	filtered := make([]llm.Message, 0, len(history))
	for _, h := range history {
		if h.Role != llm.RoleUser && h.Role != llm.RoleAssistant {
			continue
		}
		if strings.TrimSpace(h.Content) == "" {
			continue
		}
		filtered = append(filtered, llm.Message{Role: h.Role, Content: h.Content})
	}
	if len(filtered) > max {
		filtered = filtered[len(filtered)-max:]
	}
	return filtered
}

// normalizeToolCallIDs fills in missing call IDs so tool results can always
// be correlated. Some gateways omit IDs on single-call responses.
func normalizeToolCallIDs(calls []llm.ToolCall) {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = "call_" + uuid.NewString()
		}
	}
}

// mergeToolCalls accumulates tool calls across streaming chunks. Models
// split a single call across frames, so a fragment with an already-seen ID
// appends its arguments; continuation frames carry no ID and are matched by
// delta index instead. New calls are appended.
func mergeToolCalls(existing, incoming []llm.ToolCall) []llm.ToolCall {
	for _, inc := range incoming {
		found := false
		for i, ex := range existing {
			if inc.ID != "" {
				if ex.ID != inc.ID {
					continue
				}
			} else if ex.Index != inc.Index {
				continue
			}
			existing[i].Arguments += inc.Arguments
			if inc.Name != "" {
				existing[i].Name = inc.Name
			}
			found = true
			break
		}
		if !found {
			existing = append(existing, inc)
		}
	}
	return existing
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
