package config

import (
	"strconv"
	"strings"

	"rasid/pkg/config"
)

// Config stores environment configuration for the Rasid assistant service.
type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	ChatRateLimitHour  int
	RateLimitOverrides map[string]int
	MaxToolRounds      int
	MaxHistoryMessages int
	AuditKafkaTopic    string
	KafkaBrokers       []string
	KafkaClusterID     string
}

// LoadConfig loads the service configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:               config.GetEnv("PORT", "18040"),
		DatabaseURL:        config.RequireEnv("DATABASE_URL"),
		JWTSecret:          config.RequireEnv("JWT_SECRET"),
		ChatRateLimitHour:  config.GetEnvInt("RASID_CHAT_RATE_LIMIT_PER_HOUR", 0),
		RateLimitOverrides: parseRateLimitOverrides(config.GetEnv("RASID_CHAT_RATE_LIMIT_OVERRIDES", "")),
		MaxToolRounds:      config.GetEnvInt("RASID_MAX_TOOL_ROUNDS", 5),
		MaxHistoryMessages: config.GetEnvInt("RASID_MAX_HISTORY_MESSAGES", 18),
		AuditKafkaTopic:    config.GetEnv("AUDIT_KAFKA_TOPIC", "rasid.audit_log"),
		KafkaBrokers:       config.GetEnvList("KAFKA_BROKERS"),
		KafkaClusterID:     config.GetEnv("KAFKA_CLUSTER_ID", "local"),
	}
}

func parseRateLimitOverrides(raw string) map[string]int {
	overrides := map[string]int{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return overrides
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			continue
		}
		userID := strings.TrimSpace(parts[0])
		if userID == "" {
			continue
		}
		limit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || limit < 0 {
			continue
		}
		overrides[userID] = limit
	}
	return overrides
}
