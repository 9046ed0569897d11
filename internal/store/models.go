package store

import (
	"database/sql"
	"time"
)

// Leak is a detected personal-data leak.
type Leak struct {
	ID                  int64     `json:"id"`
	LeakID              string    `json:"leakId"`
	Title               string    `json:"title"`
	TitleAr             string    `json:"titleAr"`
	Description         string    `json:"description"`
	DescriptionAr       string    `json:"descriptionAr"`
	Source              string    `json:"source"`
	Severity            string    `json:"severity"`
	Sector              string    `json:"sector"`
	SectorAr            string    `json:"sectorAr"`
	RecordCount         int64     `json:"recordCount"`
	Status              string    `json:"status"`
	PIITypes            []string  `json:"piiTypes"`
	AISeverity          string    `json:"aiSeverity"`
	AISummary           string    `json:"aiSummary"`
	AISummaryAr         string    `json:"aiSummaryAr"`
	AIRecommendations   string    `json:"aiRecommendations"`
	AIRecommendationsAr string    `json:"aiRecommendationsAr"`
	DetectedAt          time.Time `json:"detectedAt"`
}

// Channel is a monitored source channel.
type Channel struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	NameAr       string       `json:"nameAr"`
	Platform     string       `json:"platform"`
	Status       string       `json:"status"`
	Priority     string       `json:"priority"`
	LeaksFound   int          `json:"leaksFound"`
	LastActivity sql.NullTime `json:"lastActivity"`
}

// MonitoringJob is a scheduled or manual scan job.
type MonitoringJob struct {
	ID         int64        `json:"id"`
	JobID      string       `json:"jobId"`
	Name       string       `json:"name"`
	NameAr     string       `json:"nameAr"`
	Type       string       `json:"type"`
	Status     string       `json:"status"`
	Schedule   string       `json:"schedule"`
	LastRun    sql.NullTime `json:"lastRun"`
	NextRun    sql.NullTime `json:"nextRun"`
	LeaksFound int          `json:"leaksFound"`
}

// AlertEvent is a delivered alert record.
type AlertEvent struct {
	ID        int64     `json:"id"`
	RuleName  string    `json:"ruleName"`
	LeakID    string    `json:"leakId"`
	Severity  string    `json:"severity"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertRule triggers alerts on matching leaks.
type AlertRule struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	NameAr    string   `json:"nameAr"`
	Condition string   `json:"condition"`
	Severity  string   `json:"severity"`
	Channels  []string `json:"channels"`
	IsEnabled bool     `json:"isEnabled"`
}

// AlertContact receives alert notifications.
type AlertContact struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Target   string `json:"target"`
	IsActive bool   `json:"isActive"`
}

// SellerProfile tracks a monitored data seller.
type SellerProfile struct {
	ID            int64        `json:"id"`
	SellerID      string       `json:"sellerId"`
	Alias         string       `json:"alias"`
	AliasAr       string       `json:"aliasAr"`
	RiskLevel     string       `json:"riskLevel"`
	Platforms     []string     `json:"platforms"`
	TotalListings int          `json:"totalListings"`
	TotalRecords  int64        `json:"totalRecords"`
	FirstSeen     sql.NullTime `json:"firstSeen"`
	LastSeen      sql.NullTime `json:"lastSeen"`
}

// Evidence is one link in a leak's evidence chain.
type Evidence struct {
	ID            int64     `json:"id"`
	EvidenceID    string    `json:"evidenceId"`
	LeakID        string    `json:"leakId"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	DescriptionAr string    `json:"descriptionAr"`
	Hash          string    `json:"hash"`
	CapturedAt    time.Time `json:"capturedAt"`
}

// EvidenceStats summarizes the evidence chain.
type EvidenceStats struct {
	TotalEvidence int            `json:"totalEvidence"`
	VerifiedCount int            `json:"verifiedCount"`
	ByType        map[string]int `json:"byType"`
}

// ThreatRule is a detection rule for threat hunting.
type ThreatRule struct {
	ID            int64        `json:"id"`
	RuleID        string       `json:"ruleId"`
	Name          string       `json:"name"`
	NameAr        string       `json:"nameAr"`
	Category      string       `json:"category"`
	Severity      string       `json:"severity"`
	IsEnabled     bool         `json:"isEnabled"`
	MatchCount    int          `json:"matchCount"`
	LastTriggered sql.NullTime `json:"lastTriggered"`
}

// DarkWebListing is a monitored dark-web listing.
type DarkWebListing struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	TitleAr      string          `json:"titleAr"`
	Forum        string          `json:"forum"`
	Seller       string          `json:"seller"`
	PriceUSD     sql.NullFloat64 `json:"priceUsd"`
	RecordCount  int64           `json:"recordCount"`
	Status       string          `json:"status"`
	DiscoveredAt time.Time       `json:"discoveredAt"`
}

// PasteEntry is a monitored paste-site entry.
type PasteEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Site      string    `json:"site"`
	PIITypes  []string  `json:"piiTypes"`
	LineCount int       `json:"lineCount"`
	Status    string    `json:"status"`
	FoundAt   time.Time `json:"foundAt"`
}

// FeedbackEntry is analyst feedback on a detection.
type FeedbackEntry struct {
	ID        int64     `json:"id"`
	LeakID    string    `json:"leakId"`
	Verdict   string    `json:"verdict"`
	Notes     string    `json:"notes"`
	Analyst   string    `json:"analyst"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackStats summarizes detection accuracy.
type FeedbackStats struct {
	TotalFeedback  int     `json:"totalFeedback"`
	TruePositives  int     `json:"truePositives"`
	FalsePositives int     `json:"falsePositives"`
	AccuracyPct    float64 `json:"accuracyPct"`
}

// GraphNode is a knowledge-graph node.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// GraphEdge links two knowledge-graph nodes.
type GraphEdge struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Relation string `json:"relation"`
}

// KnowledgeGraph is the full relation network.
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// OsintQuery is a stored open-source intelligence query.
type OsintQuery struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	Tool        string    `json:"tool"`
	ResultCount int       `json:"resultCount"`
	RunAt       time.Time `json:"runAt"`
}

// Report is a generated platform report.
type Report struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	TitleAr   string    `json:"titleAr"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScheduledReport runs automatically on a schedule.
type ScheduledReport struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Schedule string       `json:"schedule"`
	IsActive bool         `json:"isActive"`
	LastRun  sql.NullTime `json:"lastRun"`
	NextRun  sql.NullTime `json:"nextRun"`
}

// ReportAuditEntry records a report lifecycle event.
type ReportAuditEntry struct {
	ID        int64     `json:"id"`
	ReportID  int64     `json:"reportId"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"createdAt"`
}

// IncidentDocument is an archived official document for a leak.
type IncidentDocument struct {
	ID        int64     `json:"id"`
	LeakID    string    `json:"leakId"`
	Title     string    `json:"title"`
	DocType   string    `json:"docType"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ThreatMapPoint aggregates leaks for the geographic threat map.
type ThreatMapPoint struct {
	Region    string `json:"region"`
	RegionAr  string `json:"regionAr"`
	Sector    string `json:"sector"`
	LeakCount int    `json:"leakCount"`
	Severity  string `json:"severity"`
}

// RetentionPolicy governs data retention for a table.
type RetentionPolicy struct {
	ID            int64  `json:"id"`
	TableName     string `json:"tableName"`
	RetentionDays int    `json:"retentionDays"`
	IsActive      bool   `json:"isActive"`
}

// APIKey is a platform access key record.
type APIKey struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Prefix     string       `json:"prefix"`
	IsActive   bool         `json:"isActive"`
	LastUsedAt sql.NullTime `json:"lastUsedAt"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// AuditEntry is one audit-log row.
type AuditEntry struct {
	ID        int64         `json:"id"`
	UserID    sql.NullInt64 `json:"userId"`
	UserName  string        `json:"userName"`
	Action    string        `json:"action"`
	Category  string        `json:"category"`
	Details   string        `json:"details"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DashboardStats are the landing-page aggregates, also injected into the
// assistant system prompt every turn.
type DashboardStats struct {
	TotalLeaks     int   `json:"totalLeaks"`
	CriticalAlerts int   `json:"criticalAlerts"`
	TotalRecords   int64 `json:"totalRecords"`
	ActiveMonitors int   `json:"activeMonitors"`
	PIIDetected    int64 `json:"piiDetected"`
}
