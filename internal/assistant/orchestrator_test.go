package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"

	"rasid/internal/audit"
	"rasid/internal/store"
	"rasid/pkg/llm"
)

type fakeStream struct {
	chunks []llm.Chunk
	pos    int
}

func (s *fakeStream) Recv() (llm.Chunk, error) {
	if s.pos >= len(s.chunks) {
		return llm.Chunk{}, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *fakeStream) Close() error { return nil }

type fakeProvider struct {
	responses [][]llm.Chunk
	err       error
	calls     int
	requests  [][]llm.Message
}

func (p *fakeProvider) Complete(_ context.Context, messages []llm.Message, _ []llm.Tool) (llm.Stream, error) {
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	p.requests = append(p.requests, snapshot)
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	idx := p.calls - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return &fakeStream{chunks: p.responses[idx]}, nil
}

type fakeStats struct {
	stats store.DashboardStats
	err   error
}

func (f *fakeStats) GetDashboardStats(context.Context) (store.DashboardStats, error) {
	return f.stats, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOrchestrator(t *testing.T, provider llm.Provider, stats StatsSource) *Orchestrator {
	t.Helper()
	executor, err := NewExecutor(store.NewStore(nil), testLogger())
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return NewOrchestrator(OrchestratorConfig{
		Provider: provider,
		Executor: executor,
		Stats:    stats,
		Logger:   testLogger(),
	})
}

func guideToolChunk(id string) llm.Chunk {
	return llm.Chunk{ToolCalls: []llm.ToolCall{{
		ID:        id,
		Name:      "get_platform_guide",
		Arguments: `{"topic":"severity_levels"}`,
	}}}
}

func TestChatReturnsModelContent(t *testing.T) {
	provider := &fakeProvider{responses: [][]llm.Chunk{
		{{Content: "لا توجد "}, {Content: "تسريبات جديدة اليوم."}},
	}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "هل فيه تسريب اليوم؟", nil)
	if result.Response != "لا توجد تسريبات جديدة اليوم." {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if len(result.ToolsUsed) != 0 {
		t.Fatalf("expected no tools, got %v", result.ToolsUsed)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 gateway call, got %d", provider.calls)
	}
}

func TestChatToolRoundCeiling(t *testing.T) {
	// The provider asks for a tool on every round; the loop must stop
	// after the ceiling and still produce a presentable response.
	provider := &fakeProvider{responses: [][]llm.Chunk{
		{guideToolChunk("call_1")},
	}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "افحص كل شيء", nil)
	if provider.calls != 6 {
		t.Fatalf("expected 6 gateway calls, got %d", provider.calls)
	}
	if strings.TrimSpace(result.Response) == "" {
		t.Fatal("expected non-empty response at ceiling")
	}
	if len(result.ToolsUsed) != 5 {
		t.Fatalf("expected 5 tool executions, got %d", len(result.ToolsUsed))
	}
}

func TestChatToolResultsOrderedAndCorrelated(t *testing.T) {
	provider := &fakeProvider{responses: [][]llm.Chunk{
		{
			{ToolCalls: []llm.ToolCall{{ID: "call_a", Name: "get_platform_guide", Arguments: `{"topic":"severity_levels"}`}}},
			{ToolCalls: []llm.ToolCall{{Name: "get_platform_guide", Arguments: `{"topic":"pdpl_compliance"}`, Index: 1}}},
		},
		{{Content: "تم."}},
	}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "اشرح مستويات الخطورة", nil)
	if result.Response != "تم." {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if len(result.ToolsUsed) != 2 {
		t.Fatalf("expected 2 tools used, got %v", result.ToolsUsed)
	}
	if len(provider.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(provider.requests))
	}

	second := provider.requests[1]
	var assistantIdx int
	for i, msg := range second {
		if msg.Role == llm.RoleAssistant && len(msg.ToolCalls) > 0 {
			assistantIdx = i
			break
		}
	}
	calls := second[assistantIdx].ToolCalls
	if len(calls) != 2 {
		t.Fatalf("expected 2 tool calls on assistant message, got %d", len(calls))
	}
	for i, call := range calls {
		if call.ID == "" {
			t.Fatalf("tool call %d has empty ID", i)
		}
	}
	toolMessages := second[assistantIdx+1:]
	if len(toolMessages) != 2 {
		t.Fatalf("expected 2 tool messages, got %d", len(toolMessages))
	}
	for i, msg := range toolMessages {
		if msg.Role != llm.RoleTool {
			t.Fatalf("message %d has role %q", i, msg.Role)
		}
		if msg.ToolCallID != calls[i].ID {
			t.Fatalf("tool message %d correlates to %q, want %q", i, msg.ToolCallID, calls[i].ID)
		}
		if msg.Content == "" {
			t.Fatalf("tool message %d has empty content", i)
		}
	}
}

func TestChatDashboardStatsRoundTrip(t *testing.T) {
	executor, mock := newMockExecutor(t)
	// The five dashboard counts run concurrently.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leaks$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leaks WHERE severity = 'critical'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(record_count\), 0\) FROM leaks`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(125000))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM monitoring_jobs WHERE status = 'active'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(pii_count\), 0\) FROM pii_scans`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(60))
	mock.ExpectQuery(`(?s)SELECT .+ FROM leaks ORDER BY detected_at DESC$`).
		WillReturnRows(leakRow())

	provider := &fakeProvider{responses: [][]llm.Chunk{
		{{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "get_dashboard_stats", Arguments: "{}"}}}},
		{{Content: "رصدت المنصة 8 تسريبات، منها 3 حرجة."}},
	}}
	orchestrator := NewOrchestrator(OrchestratorConfig{
		Provider: provider,
		Executor: executor,
		Stats:    &fakeStats{},
		Logger:   testLogger(),
	})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "كم عدد التسريبات؟", nil)
	if len(result.ToolsUsed) != 1 || result.ToolsUsed[0] != "get_dashboard_stats" {
		t.Fatalf("expected one get_dashboard_stats call, got %v", result.ToolsUsed)
	}
	if !strings.Contains(result.Response, "8") || !strings.Contains(result.Response, "3") {
		t.Fatalf("response does not carry the stats: %q", result.Response)
	}

	second := provider.requests[1]
	toolMsg := second[len(second)-1]
	if toolMsg.Role != llm.RoleTool || toolMsg.Name != "get_dashboard_stats" {
		t.Fatalf("unexpected tool message: %+v", toolMsg)
	}
	for _, want := range []string{`"totalLeaks":8`, `"criticalAlerts":3`, `"activeMonitors":4`, `"leakId":"LK-2026-0001"`} {
		if !strings.Contains(toolMsg.Content, want) {
			t.Fatalf("tool payload missing %s: %s", want, toolMsg.Content)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("store expectations: %v", err)
	}
}

func TestChatHistoryWindow(t *testing.T) {
	provider := &fakeProvider{responses: [][]llm.Chunk{
		{{Content: "تمام"}},
	}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	history := make([]HistoryMessage, 0, 31)
	for i := 0; i < 30; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, HistoryMessage{Role: role, Content: "رسالة"})
	}
	history = append(history, HistoryMessage{Role: "tool", Content: "ignored"})

	orchestrator.Chat(context.Background(), 7, "سارة", "سؤال", history)

	sent := provider.requests[0]
	// system + trailing 18 history turns + current message
	if len(sent) != 20 {
		t.Fatalf("expected 20 messages, got %d", len(sent))
	}
	if sent[0].Role != llm.RoleSystem {
		t.Fatalf("first message role %q, want system", sent[0].Role)
	}
	if sent[len(sent)-1].Content != "سؤال" {
		t.Fatalf("last message %q, want the current question", sent[len(sent)-1].Content)
	}
	for _, msg := range sent[1 : len(sent)-1] {
		if msg.Role != llm.RoleUser && msg.Role != llm.RoleAssistant {
			t.Fatalf("unexpected history role %q", msg.Role)
		}
	}
}

func TestChatGatewayErrorFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "هل فيه تسريب؟", nil)
	if result.Response != fallbackError {
		t.Fatalf("expected error fallback, got %q", result.Response)
	}
}

func TestChatStatsFailureFallback(t *testing.T) {
	provider := &fakeProvider{responses: [][]llm.Chunk{{{Content: "نص"}}}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{err: errors.New("db down")})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "مرحبا", nil)
	if result.Response != fallbackError {
		t.Fatalf("expected error fallback, got %q", result.Response)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no gateway calls, got %d", provider.calls)
	}
}

func TestChatEmptyContentFallback(t *testing.T) {
	provider := &fakeProvider{responses: [][]llm.Chunk{{}}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "مرحبا", nil)
	if result.Response != fallbackEmptyResponse {
		t.Fatalf("expected empty-content fallback, got %q", result.Response)
	}
}

func TestChatWritesAuditEntry(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(int64(7), "سارة", "smart_rasid.chat", "system", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	provider := &fakeProvider{responses: [][]llm.Chunk{{{Content: "أهلاً"}}}}
	executor, err := NewExecutor(store.NewStore(nil), testLogger())
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	orchestrator := NewOrchestrator(OrchestratorConfig{
		Provider: provider,
		Executor: executor,
		Stats:    &fakeStats{},
		Audit:    audit.NewLogger(db, nil, "rasid.audit_log", testLogger()),
		Logger:   testLogger(),
	})

	orchestrator.Chat(context.Background(), 7, "سارة", "مرحبا", nil)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("audit expectations: %v", err)
	}
}

func TestMergeToolCallsAccumulatesFragments(t *testing.T) {
	merged := mergeToolCalls(nil, []llm.ToolCall{{ID: "call_1", Name: "query_leaks", Arguments: `{"sev`}})
	merged = mergeToolCalls(merged, []llm.ToolCall{{ID: "call_1", Arguments: `erity":"critical"}`}})
	merged = mergeToolCalls(merged, []llm.ToolCall{{ID: "call_2", Name: "get_dashboard_stats", Arguments: "{}", Index: 1}})

	if len(merged) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(merged))
	}
	if merged[0].Arguments != `{"severity":"critical"}` {
		t.Fatalf("unexpected arguments: %q", merged[0].Arguments)
	}
	if merged[0].Name != "query_leaks" {
		t.Fatalf("unexpected name: %q", merged[0].Name)
	}
	if merged[1].ID != "call_2" {
		t.Fatalf("unexpected second call: %+v", merged[1])
	}
}

func TestMergeToolCallsMatchesContinuationsByIndex(t *testing.T) {
	// Continuation frames on the wire carry no call ID, only the delta
	// index. They must extend the original call, not open a new one.
	merged := mergeToolCalls(nil, []llm.ToolCall{{ID: "call_1", Name: "get_platform_guide", Arguments: `{"top`}})
	merged = mergeToolCalls(merged, []llm.ToolCall{{Arguments: `ic":"severity_levels"}`}})

	if len(merged) != 1 {
		t.Fatalf("expected 1 call, got %d: %+v", len(merged), merged)
	}
	if merged[0].Arguments != `{"topic":"severity_levels"}` {
		t.Fatalf("unexpected arguments: %q", merged[0].Arguments)
	}
	if merged[0].ID != "call_1" || merged[0].Name != "get_platform_guide" {
		t.Fatalf("lost call identity: %+v", merged[0])
	}
}

func TestChatReassemblesSplitToolCall(t *testing.T) {
	provider := &fakeProvider{responses: [][]llm.Chunk{
		{
			{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "get_platform_guide", Arguments: `{"top`}}},
			{ToolCalls: []llm.ToolCall{{Arguments: `ic":"severity_levels"}`}}},
		},
		{{Content: "تم."}},
	}}
	orchestrator := testOrchestrator(t, provider, &fakeStats{})

	result := orchestrator.Chat(context.Background(), 7, "سارة", "اشرح مستويات الخطورة", nil)
	if len(result.ToolsUsed) != 1 || result.ToolsUsed[0] != "get_platform_guide" {
		t.Fatalf("expected one get_platform_guide call, got %v", result.ToolsUsed)
	}

	second := provider.requests[1]
	var assistantIdx int
	for i, msg := range second {
		if msg.Role == llm.RoleAssistant && len(msg.ToolCalls) > 0 {
			assistantIdx = i
			break
		}
	}
	calls := second[assistantIdx].ToolCalls
	if len(calls) != 1 {
		t.Fatalf("expected 1 tool call on assistant message, got %d", len(calls))
	}
	if calls[0].Arguments != `{"topic":"severity_levels"}` {
		t.Fatalf("arguments not reassembled: %q", calls[0].Arguments)
	}
	toolMsg := second[assistantIdx+1]
	if strings.Contains(toolMsg.Content, `"error"`) {
		t.Fatalf("tool result is an error payload: %q", toolMsg.Content)
	}
}

func TestTrimHistoryFiltersRoles(t *testing.T) {
	history := []HistoryMessage{
		{Role: "system", Content: "ignore"},
		{Role: "user", Content: "سؤال"},
		{Role: "tool", Content: "ignore"},
		{Role: "assistant", Content: "جواب"},
		{Role: "user", Content: "   "},
	}
	trimmed := trimHistory(history, 18)
	if len(trimmed) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(trimmed))
	}
	if trimmed[0].Content != "سؤال" || trimmed[1].Content != "جواب" {
		t.Fatalf("unexpected messages: %+v", trimmed)
	}
}
