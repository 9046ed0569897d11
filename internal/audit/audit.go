// Package audit records platform actions to the audit_log table and,
// when Kafka is configured, mirrors each entry to an audit topic.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rasid/pkg/logging"
)

const maxDetailLength = 500

// Producer is the Kafka surface the logger needs. Nil disables publication.
type Producer interface {
	ProduceMessage(topic string, key, value []byte, headers map[string]string) error
}

// Entry is one audit record.
type Entry struct {
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
	Category  string    `json:"category"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// Logger writes audit entries. The database write is authoritative; Kafka
// publication is best effort.
type Logger struct {
	db       *sql.DB
	producer Producer
	topic    string
	logger   logging.Logger
}

func NewLogger(db *sql.DB, producer Producer, topic string, logger logging.Logger) *Logger {
	return &Logger{
		db:       db,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Log records an action. Details longer than 500 runes are truncated.
func (l *Logger) Log(ctx context.Context, userID int64, action, details, category, userName string) error {
	if l == nil || l.db == nil {
		return nil
	}
	if runes := []rune(details); len(runes) > maxDetailLength {
		details = string(runes[:maxDetailLength])
	}

	entry := Entry{
		UserID:    userID,
		UserName:  userName,
		Action:    action,
		Category:  category,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, user_name, action, category, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.UserID,
		entry.UserName,
		entry.Action,
		entry.Category,
		entry.Details,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	l.publish(entry)
	return nil
}

func (l *Logger) publish(entry Entry) {
	if l.producer == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		if l.logger != nil {
			l.logger.WithError(err).Warn("Failed to marshal audit entry for Kafka")
		}
		return
	}
	err = l.producer.ProduceMessage(l.topic, []byte(entry.Action), payload, map[string]string{
		"source":   "rasid",
		"category": entry.Category,
	})
	if err != nil && l.logger != nil {
		l.logger.WithError(err).WithField("topic", l.topic).Warn("Failed to publish audit entry to Kafka")
	}
}
