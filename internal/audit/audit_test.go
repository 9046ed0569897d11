package audit

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"rasid/pkg/logging"
)

type fakeProducer struct {
	topic string
	key   []byte
	value []byte
	calls int
}

func (f *fakeProducer) ProduceMessage(topic string, key, value []byte, headers map[string]string) error {
	f.topic = topic
	f.key = key
	f.value = value
	f.calls++
	return nil
}

func TestLogWritesRowAndPublishes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(int64(7), "خالد", "smart_rasid.chat", "system", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	producer := &fakeProducer{}
	logger := NewLogger(db, producer, "rasid.audit_log", logging.NewLogger())

	err = logger.Log(context.Background(), 7, "smart_rasid.chat", "Query: هل فيه تسريب اليوم؟", "system", "خالد")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if producer.calls != 1 {
		t.Fatalf("expected one Kafka publish, got %d", producer.calls)
	}
	if producer.topic != "rasid.audit_log" {
		t.Fatalf("unexpected topic %q", producer.topic)
	}
	var entry Entry
	if err := json.Unmarshal(producer.value, &entry); err != nil {
		t.Fatalf("unmarshal published entry: %v", err)
	}
	if entry.Action != "smart_rasid.chat" || entry.UserName != "خالد" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogTruncatesDetails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	long := strings.Repeat("م", 900)
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(int64(1), "u", "smart_rasid.error", "system", string([]rune(long)[:500])).
		WillReturnResult(sqlmock.NewResult(1, 1))

	logger := NewLogger(db, nil, "", logging.NewLogger())
	if err := logger.Log(context.Background(), 1, "smart_rasid.error", long, "system", "u"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	if err := logger.Log(context.Background(), 1, "a", "d", "c", "u"); err != nil {
		t.Fatalf("expected nil logger no-op, got %v", err)
	}
}
