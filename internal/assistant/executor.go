package assistant

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"rasid/internal/store"
	"rasid/pkg/logging"
)

// maxResultBytes bounds every serialized tool result fed back to the model.
const maxResultBytes = 8000

// Executor resolves tool calls against the platform store. Every call
// returns a serialized payload; failures become {"error": ...} payloads so
// the model can recover, never Go errors.
type Executor struct {
	store    *store.Store
	registry *Registry
	logger   logging.Logger
}

func NewExecutor(st *store.Store, logger logging.Logger) (*Executor, error) {
	e := &Executor{store: st, logger: logger}
	registry, err := NewRegistry(map[string]Handler{
		"query_leaks":           e.queryLeaks,
		"get_leak_details":      e.getLeakDetails,
		"get_dashboard_stats":   e.getDashboardStats,
		"get_channels_info":     e.getChannelsInfo,
		"get_monitoring_status": e.getMonitoringStatus,
		"get_alert_info":        e.getAlertInfo,
		"get_sellers_info":      e.getSellersInfo,
		"get_evidence_info":     e.getEvidenceInfo,
		"get_threat_rules_info": e.getThreatRulesInfo,
		"get_darkweb_pastes":    e.getDarkwebPastes,
		"get_feedback_accuracy": e.getFeedbackAccuracy,
		"get_knowledge_graph":   e.getKnowledgeGraph,
		"get_osint_info":        e.getOsintInfo,
		"get_reports_info":      e.getReportsInfo,
		"get_threat_map":        e.getThreatMap,
		"get_audit_log":         e.getAuditLog,
		"get_system_health":     e.getSystemHealth,
		"analyze_trends":        e.analyzeTrends,
		"get_platform_guide":    e.getPlatformGuide,
	})
	if err != nil {
		return nil, err
	}
	e.registry = registry
	return e, nil
}

// Execute runs one tool call and returns the serialized result, truncated to
// the result ceiling. It never returns an error: unknown tools, bad
// arguments, handler failures, and panics all surface as error payloads.
func (e *Executor) Execute(ctx context.Context, name, rawArgs string) string {
	args := decodeArgs(rawArgs)

	handler, ok := e.registry.Lookup(name)
	if !ok {
		return marshalResult(map[string]any{
			"error": fmt.Sprintf("أداة غير معروفة: %s", name),
		})
	}

	coerceEnums(name, args)

	result, err := e.invoke(ctx, handler, args)
	if err != nil {
		if e.logger != nil {
			e.logger.WithError(err).WithField("tool", name).Warn("Tool execution failed")
		}
		return marshalResult(map[string]any{
			"error": fmt.Sprintf("خطأ في تنفيذ الأداة %s: %v", name, err),
		})
	}
	return marshalResult(result)
}

func (e *Executor) invoke(ctx context.Context, handler Handler, args Args) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, args)
}

// decodeArgs parses tool-call argument JSON. Anything unparseable becomes
// empty arguments so the handler runs with defaults.
func decodeArgs(raw string) Args {
	args := Args{}
	if strings.TrimSpace(raw) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return Args{}
	}
	return args
}

// coerceEnums validates enum-typed arguments against the declared sets,
// normalizing case and dropping values outside the set. The model sometimes
// invents enum values; a dropped filter is safer than a failed query.
func coerceEnums(toolName string, args Args) {
	for key, value := range args {
		allowed := enumValues(toolName, key)
		if len(allowed) == 0 {
			continue
		}
		str, ok := value.(string)
		if !ok {
			delete(args, key)
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(str))
		valid := false
		for _, candidate := range allowed {
			if normalized == candidate {
				valid = true
				break
			}
		}
		if valid {
			args[key] = normalized
		} else {
			delete(args, key)
		}
	}
}

func marshalResult(result any) string {
	payload, err := json.Marshal(result)
	if err != nil {
		payload, _ = json.Marshal(map[string]any{"error": "تعذّر تمثيل النتيجة"})
	}
	return truncateBytes(string(payload), maxResultBytes)
}

// truncateBytes cuts s to at most limit bytes without splitting a rune.
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// arOr collapses a bilingual field pair to the Arabic value when present.
func arOr(ar, en string) string {
	if ar != "" {
		return ar
	}
	return en
}

func filterValue(v string) string {
	if v == "all" {
		return ""
	}
	return v
}

// Tool handlers. Each shapes its result the way the admin UI presents the
// same data: Arabic-first fields, bounded row counts.

func (e *Executor) queryLeaks(ctx context.Context, args Args) (any, error) {
	leaks, err := e.store.ListLeaks(ctx, store.LeakFilters{
		Severity: filterValue(args.String("severity")),
		Status:   filterValue(args.String("status")),
		Source:   filterValue(args.String("source")),
		Search:   args.String("search"),
	})
	if err != nil {
		return nil, err
	}
	limit := args.Int("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	limited := leaks
	if len(limited) > limit {
		limited = limited[:limit]
	}
	rows := make([]map[string]any, 0, len(limited))
	for _, l := range limited {
		rows = append(rows, map[string]any{
			"leakId":      l.LeakID,
			"title":       arOr(l.TitleAr, l.Title),
			"source":      l.Source,
			"severity":    l.Severity,
			"sector":      arOr(l.SectorAr, l.Sector),
			"recordCount": l.RecordCount,
			"status":      l.Status,
			"piiTypes":    l.PIITypes,
			"detectedAt":  l.DetectedAt,
			"aiSummary":   arOr(l.AISummaryAr, l.AISummary),
		})
	}
	return map[string]any{
		"total":   len(leaks),
		"showing": len(limited),
		"leaks":   rows,
	}, nil
}

func (e *Executor) getLeakDetails(ctx context.Context, args Args) (any, error) {
	leakID := args.String("leak_id")
	leak, err := e.store.GetLeakByID(ctx, leakID)
	if err == store.ErrLeakNotFound {
		return map[string]any{
			"error": fmt.Sprintf("لم يتم العثور على تسريب بمعرّف %s", leakID),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	evidence, err := e.store.ListEvidenceChain(ctx, leakID)
	if err != nil {
		return nil, err
	}
	shown := evidence
	if len(shown) > 10 {
		shown = shown[:10]
	}
	return map[string]any{
		"leak": map[string]any{
			"leakId":            leak.LeakID,
			"title":             arOr(leak.TitleAr, leak.Title),
			"description":       arOr(leak.DescriptionAr, leak.Description),
			"source":            leak.Source,
			"severity":          leak.Severity,
			"sector":            arOr(leak.SectorAr, leak.Sector),
			"recordCount":       leak.RecordCount,
			"status":            leak.Status,
			"piiTypes":          leak.PIITypes,
			"detectedAt":        leak.DetectedAt,
			"aiSeverity":        leak.AISeverity,
			"aiSummary":         arOr(leak.AISummaryAr, leak.AISummary),
			"aiRecommendations": arOr(leak.AIRecommendationsAr, leak.AIRecommendations),
		},
		"evidenceCount": len(evidence),
		"evidence":      projectEvidence(shown),
	}, nil
}

func (e *Executor) getDashboardStats(ctx context.Context, _ Args) (any, error) {
	stats, err := e.store.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	leaks, err := e.store.ListLeaks(ctx, store.LeakFilters{})
	if err != nil {
		return nil, err
	}
	bySeverity := map[string]int{}
	bySource := map[string]int{}
	bySector := map[string]int{}
	for _, l := range leaks {
		bySeverity[l.Severity]++
		bySource[l.Source]++
		bySector[arOr(l.SectorAr, l.Sector)]++
	}
	latest := leaks
	if len(latest) > 5 {
		latest = latest[:5]
	}
	latestRows := make([]map[string]any, 0, len(latest))
	for _, l := range latest {
		latestRows = append(latestRows, map[string]any{
			"leakId":     l.LeakID,
			"title":      arOr(l.TitleAr, l.Title),
			"severity":   l.Severity,
			"detectedAt": l.DetectedAt,
		})
	}
	return map[string]any{
		"totalLeaks":      stats.TotalLeaks,
		"criticalAlerts":  stats.CriticalAlerts,
		"totalRecords":    stats.TotalRecords,
		"activeMonitors":  stats.ActiveMonitors,
		"piiDetected":     stats.PIIDetected,
		"totalLeaksInDB":  len(leaks),
		"bySeverity":      bySeverity,
		"bySource":        bySource,
		"bySector":        bySector,
		"latestLeaks":     latestRows,
	}, nil
}

func (e *Executor) getChannelsInfo(ctx context.Context, args Args) (any, error) {
	channels, err := e.store.ListChannels(ctx, filterValue(args.String("platform")))
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(channels))
	for _, ch := range channels {
		rows = append(rows, map[string]any{
			"name":         ch.Name,
			"nameAr":       ch.NameAr,
			"platform":     ch.Platform,
			"status":       ch.Status,
			"priority":     ch.Priority,
			"leaksFound":   ch.LeaksFound,
			"lastActivity": nullTime(ch.LastActivity),
		})
	}
	return map[string]any{"total": len(channels), "channels": rows}, nil
}

func (e *Executor) getMonitoringStatus(ctx context.Context, _ Args) (any, error) {
	jobs, err := e.store.ListMonitoringJobs(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, map[string]any{
			"jobId":      j.JobID,
			"name":       arOr(j.NameAr, j.Name),
			"type":       j.Type,
			"status":     j.Status,
			"schedule":   j.Schedule,
			"lastRun":    nullTime(j.LastRun),
			"nextRun":    nullTime(j.NextRun),
			"leaksFound": j.LeaksFound,
		})
	}
	return map[string]any{"total": len(jobs), "jobs": rows}, nil
}

func (e *Executor) getAlertInfo(ctx context.Context, args Args) (any, error) {
	infoType := args.String("info_type")
	result := map[string]any{}
	if infoType == "" || infoType == "all" || infoType == "history" {
		history, err := e.store.ListAlertHistory(ctx, 50)
		if err != nil {
			return nil, err
		}
		shown := history
		if len(shown) > 20 {
			shown = shown[:20]
		}
		result["history"] = map[string]any{"total": len(history), "alerts": shown}
	}
	if infoType == "" || infoType == "all" || infoType == "rules" {
		rules, err := e.store.ListAlertRules(ctx)
		if err != nil {
			return nil, err
		}
		result["rules"] = rules
	}
	if infoType == "" || infoType == "all" || infoType == "contacts" {
		contacts, err := e.store.ListAlertContacts(ctx)
		if err != nil {
			return nil, err
		}
		result["contacts"] = contacts
	}
	return result, nil
}

func (e *Executor) getSellersInfo(ctx context.Context, args Args) (any, error) {
	if sellerID := args.String("seller_id"); sellerID != "" {
		seller, err := e.store.GetSellerByID(ctx, sellerID)
		if err == store.ErrSellerNotFound {
			return map[string]any{
				"error": fmt.Sprintf("لم يتم العثور على البائع %s", sellerID),
			}, nil
		}
		if err != nil {
			return nil, err
		}
		return projectSeller(seller), nil
	}
	sellers, err := e.store.ListSellerProfiles(ctx, filterValue(args.String("risk_level")))
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(sellers))
	for _, s := range sellers {
		rows = append(rows, projectSeller(s))
	}
	return map[string]any{"total": len(sellers), "sellers": rows}, nil
}

func (e *Executor) getEvidenceInfo(ctx context.Context, args Args) (any, error) {
	stats, err := e.store.GetEvidenceStats(ctx)
	if err != nil {
		return nil, err
	}
	chain, err := e.store.ListEvidenceChain(ctx, args.String("leak_id"))
	if err != nil {
		return nil, err
	}
	shown := chain
	if len(shown) > 20 {
		shown = shown[:20]
	}
	return map[string]any{
		"stats":    stats,
		"total":    len(chain),
		"evidence": projectEvidence(shown),
	}, nil
}

func (e *Executor) getThreatRulesInfo(ctx context.Context, _ Args) (any, error) {
	rules, err := e.store.ListThreatRules(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, map[string]any{
			"ruleId":        r.RuleID,
			"name":          arOr(r.NameAr, r.Name),
			"category":      r.Category,
			"severity":      r.Severity,
			"isEnabled":     r.IsEnabled,
			"matchCount":    r.MatchCount,
			"lastTriggered": nullTime(r.LastTriggered),
		})
	}
	return map[string]any{"total": len(rules), "rules": rows}, nil
}

func (e *Executor) getDarkwebPastes(ctx context.Context, args Args) (any, error) {
	sourceType := args.String("source_type")
	result := map[string]any{}
	if sourceType == "" || sourceType == "both" || sourceType == "darkweb" {
		listings, err := e.store.ListDarkWebListings(ctx)
		if err != nil {
			return nil, err
		}
		shown := listings
		if len(shown) > 15 {
			shown = shown[:15]
		}
		result["darkweb"] = map[string]any{"total": len(listings), "listings": shown}
	}
	if sourceType == "" || sourceType == "both" || sourceType == "paste" {
		pastes, err := e.store.ListPasteEntries(ctx)
		if err != nil {
			return nil, err
		}
		shown := pastes
		if len(shown) > 15 {
			shown = shown[:15]
		}
		result["pastes"] = map[string]any{"total": len(pastes), "entries": shown}
	}
	return result, nil
}

func (e *Executor) getFeedbackAccuracy(ctx context.Context, _ Args) (any, error) {
	stats, err := e.store.GetFeedbackStats(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := e.store.ListFeedbackEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > 20 {
		entries = entries[:20]
	}
	return map[string]any{"stats": stats, "recentFeedback": entries}, nil
}

func (e *Executor) getKnowledgeGraph(ctx context.Context, _ Args) (any, error) {
	return e.store.GetKnowledgeGraph(ctx)
}

func (e *Executor) getOsintInfo(ctx context.Context, _ Args) (any, error) {
	queries, err := e.store.ListOsintQueries(ctx)
	if err != nil {
		return nil, err
	}
	total := len(queries)
	if len(queries) > 20 {
		queries = queries[:20]
	}
	return map[string]any{"total": total, "queries": queries}, nil
}

func (e *Executor) getReportsInfo(ctx context.Context, args Args) (any, error) {
	reportType := args.String("report_type")
	result := map[string]any{}
	switch reportType {
	case "scheduled":
		scheduled, err := e.store.ListScheduledReports(ctx)
		if err != nil {
			return nil, err
		}
		result["scheduled"] = scheduled
	case "audit":
		auditEntries, err := e.store.ListReportAuditEntries(ctx, 50)
		if err != nil {
			return nil, err
		}
		result["audit"] = auditEntries
	case "documents":
		docs, err := e.store.ListIncidentDocuments(ctx)
		if err != nil {
			return nil, err
		}
		result["documents"] = docs
	default:
		reports, err := e.store.ListReports(ctx)
		if err != nil {
			return nil, err
		}
		scheduled, err := e.store.ListScheduledReports(ctx)
		if err != nil {
			return nil, err
		}
		auditEntries, err := e.store.ListReportAuditEntries(ctx, 20)
		if err != nil {
			return nil, err
		}
		docs, err := e.store.ListIncidentDocuments(ctx)
		if err != nil {
			return nil, err
		}
		if len(docs) > 20 {
			docs = docs[:20]
		}
		result["reports"] = reports
		result["scheduled"] = scheduled
		result["audit"] = auditEntries
		result["documents"] = docs
	}
	return result, nil
}

func (e *Executor) getThreatMap(ctx context.Context, _ Args) (any, error) {
	return e.store.GetThreatMapData(ctx)
}

func (e *Executor) getAuditLog(ctx context.Context, args Args) (any, error) {
	logs, err := e.store.ListAuditLogs(ctx, store.AuditLogFilters{
		Category: args.String("category"),
		Limit:    args.Int("limit", 50),
	})
	if err != nil {
		return nil, err
	}
	shown := logs
	if len(shown) > 30 {
		shown = shown[:30]
	}
	rows := make([]map[string]any, 0, len(shown))
	for _, l := range shown {
		details := l.Details
		if runes := []rune(details); len(runes) > 200 {
			details = string(runes[:200])
		}
		rows = append(rows, map[string]any{
			"action":    l.Action,
			"category":  l.Category,
			"userName":  l.UserName,
			"details":   details,
			"createdAt": l.CreatedAt,
		})
	}
	return map[string]any{"total": len(logs), "logs": rows}, nil
}

func (e *Executor) getSystemHealth(ctx context.Context, _ Args) (any, error) {
	retention, err := e.store.ListRetentionPolicies(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := e.store.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := e.store.ListAPIKeys(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":            "operational",
		"database":          "connected",
		"retentionPolicies": retention,
		"apiKeys":           keys,
		"stats":             stats,
	}, nil
}

func (e *Executor) analyzeTrends(ctx context.Context, args Args) (any, error) {
	leaks, err := e.store.ListLeaks(ctx, store.LeakFilters{})
	if err != nil {
		return nil, err
	}
	analysisType := args.String("analysis_type")
	comprehensive := analysisType == "" || analysisType == "comprehensive"
	result := map[string]any{"totalLeaks": len(leaks)}

	if analysisType == "severity_distribution" || comprehensive {
		dist := map[string]int{}
		for _, l := range leaks {
			dist[l.Severity]++
		}
		result["severityDistribution"] = dist
	}
	if analysisType == "source_distribution" || comprehensive {
		dist := map[string]int{}
		for _, l := range leaks {
			dist[l.Source]++
		}
		result["sourceDistribution"] = dist
	}
	if analysisType == "sector_distribution" || comprehensive {
		dist := map[string]int{}
		for _, l := range leaks {
			dist[arOr(l.SectorAr, l.Sector)]++
		}
		result["sectorDistribution"] = dist
	}
	if analysisType == "pii_types" || comprehensive {
		dist := map[string]int{}
		for _, l := range leaks {
			for _, p := range l.PIITypes {
				dist[p]++
			}
		}
		result["piiTypeDistribution"] = dist
	}
	if analysisType == "time_trend" || comprehensive {
		byMonth := map[string]int{}
		for _, l := range leaks {
			if !l.DetectedAt.IsZero() {
				byMonth[l.DetectedAt.Format("2006-01")]++
			}
		}
		result["monthlyTrend"] = byMonth
	}
	if comprehensive {
		var totalRecords int64
		for _, l := range leaks {
			totalRecords += l.RecordCount
		}
		result["totalRecordsExposed"] = totalRecords
		if len(leaks) > 0 {
			result["averageRecordsPerLeak"] = totalRecords / int64(len(leaks))
		} else {
			result["averageRecordsPerLeak"] = 0
		}
	}
	return result, nil
}

func (e *Executor) getPlatformGuide(_ context.Context, args Args) (any, error) {
	return GetPlatformGuide(args.String("topic")), nil
}

func projectSeller(s store.SellerProfile) map[string]any {
	return map[string]any{
		"sellerId":      s.SellerID,
		"alias":         arOr(s.AliasAr, s.Alias),
		"riskLevel":     s.RiskLevel,
		"platforms":     s.Platforms,
		"totalListings": s.TotalListings,
		"totalRecords":  s.TotalRecords,
		"firstSeen":     nullTime(s.FirstSeen),
		"lastSeen":      nullTime(s.LastSeen),
	}
}

func projectEvidence(chain []store.Evidence) []map[string]any {
	rows := make([]map[string]any, 0, len(chain))
	for _, ev := range chain {
		rows = append(rows, map[string]any{
			"evidenceId":  ev.EvidenceID,
			"leakId":      ev.LeakID,
			"type":        ev.Type,
			"description": arOr(ev.DescriptionAr, ev.Description),
			"hash":        ev.Hash,
			"capturedAt":  ev.CapturedAt,
		})
	}
	return rows
}

func nullTime(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time
}
