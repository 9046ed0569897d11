package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockConversationStore(t *testing.T) (*ConversationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewConversationStore(db), mock
}

func TestCreateConversation(t *testing.T) {
	store, mock := newMockConversationStore(t)
	mock.ExpectQuery(`INSERT INTO rasid_conversations`).
		WithArgs(int64(7), "تسريبات اليوم").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("conv-1"))

	id, err := store.CreateConversation(context.Background(), 7, "تسريبات اليوم")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if id != "conv-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddMessageScopedToOwner(t *testing.T) {
	store, mock := newMockConversationStore(t)
	mock.ExpectQuery(`INSERT INTO rasid_messages`).
		WithArgs("conv-1", "assistant", "تم", []byte(`["query_leaks"]`), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("msg-1"))
	mock.ExpectExec(`UPDATE rasid_conversations`).
		WithArgs("conv-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AddMessage(context.Background(), 7, "conv-1", "assistant", "تم", []string{"query_leaks"})
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddMessageUnknownConversation(t *testing.T) {
	store, mock := newMockConversationStore(t)
	mock.ExpectQuery(`INSERT INTO rasid_messages`).
		WithArgs("conv-x", "user", "مرحبا", []byte("null"), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := store.AddMessage(context.Background(), 7, "conv-x", "user", "مرحبا", nil)
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestGetRecentMessagesChronological(t *testing.T) {
	store, mock := newMockConversationStore(t)
	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM rasid_messages`).
		WithArgs("conv-1", int64(7), 18).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "conversation_id", "role", "content", "tools_used", "created_at",
		}).
			AddRow("m1", "conv-1", "user", "سؤال", []byte("null"), now.Add(-time.Minute)).
			AddRow("m2", "conv-1", "assistant", "جواب", []byte(`["query_leaks"]`), now))

	messages, err := store.GetRecentMessages(context.Background(), 7, "conv-1", 18)
	if err != nil {
		t.Fatalf("GetRecentMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != "user" || messages[1].Role != "assistant" {
		t.Fatalf("unexpected order: %+v", messages)
	}
}

func TestDeleteConversationNotFound(t *testing.T) {
	store, mock := newMockConversationStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM rasid_messages`).
		WithArgs("conv-x", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM rasid_conversations`).
		WithArgs("conv-x", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.DeleteConversation(context.Background(), 7, "conv-x")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
