package assistant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is a saved assistant conversation with its messages.
type Conversation struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"userId"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Messages  []StoredMessage `json:"messages"`
}

// ConversationSummary is the list view of a conversation.
type ConversationSummary struct {
	ID            string       `json:"id"`
	UserID        int64        `json:"userId"`
	Title         string       `json:"title"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	LastMessageAt sql.NullTime `json:"lastMessageAt"`
	MessageCount  int          `json:"messageCount"`
}

// StoredMessage is one persisted conversation message.
type StoredMessage struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	Role           string          `json:"role"`
	Content        string          `json:"content"`
	ToolsUsed      json.RawMessage `json:"toolsUsed"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ConversationStore persists conversations scoped to their owning user.
// Every query filters on user_id so one user can never read another's
// conversations.
type ConversationStore struct {
	db *sql.DB
}

func NewConversationStore(db *sql.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

func (s *ConversationStore) CreateConversation(ctx context.Context, userID int64, title string) (string, error) {
	var conversationID string
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO rasid_conversations (user_id, title)
		 VALUES ($1, $2)
		 RETURNING id`,
		userID,
		title,
	).Scan(&conversationID)
	if err != nil {
		return "", fmt.Errorf("create conversation: %w", err)
	}
	return conversationID, nil
}

func (s *ConversationStore) AddMessage(ctx context.Context, userID int64, conversationID, role, content string, toolsUsed []string) error {
	toolsValue := json.RawMessage("null")
	if len(toolsUsed) > 0 {
		encoded, err := json.Marshal(toolsUsed)
		if err != nil {
			return fmt.Errorf("encode tools: %w", err)
		}
		toolsValue = encoded
	}

	var messageID string
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO rasid_messages (conversation_id, role, content, tools_used)
		 SELECT c.id, $2, $3, $4
		 FROM rasid_conversations c
		 WHERE c.id = $1 AND c.user_id = $5
		 RETURNING id`,
		conversationID,
		role,
		content,
		toolsValue,
		userID,
	).Scan(&messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConversationNotFound
	}
	if err != nil {
		return fmt.Errorf("add message: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE rasid_conversations
		 SET updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		conversationID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update conversation timestamp: %w", err)
	}
	return nil
}

func (s *ConversationStore) GetConversation(ctx context.Context, userID int64, conversationID string) (Conversation, error) {
	var convo Conversation
	var title sql.NullString
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM rasid_conversations
		 WHERE id = $1 AND user_id = $2`,
		conversationID,
		userID,
	).Scan(&convo.ID, &convo.UserID, &title, &convo.CreatedAt, &convo.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	convo.Title = title.String

	messages, err := s.fetchMessages(ctx, userID, conversationID)
	if err != nil {
		return Conversation{}, err
	}
	convo.Messages = messages
	return convo, nil
}

func (s *ConversationStore) ListConversations(ctx context.Context, userID int64, limit, offset int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = 25
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT
			c.id,
			c.user_id,
			COALESCE(c.title, ''),
			c.created_at,
			c.updated_at,
			MAX(m.created_at) AS last_message_at,
			COUNT(m.id) AS message_count
		 FROM rasid_conversations c
		 LEFT JOIN rasid_messages m ON m.conversation_id = c.id
		 WHERE c.user_id = $1
		 GROUP BY c.id, c.user_id, c.title, c.created_at, c.updated_at
		 ORDER BY COALESCE(MAX(m.created_at), c.created_at) DESC
		 LIMIT $2 OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var summary ConversationSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.UserID,
			&summary.Title,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.LastMessageAt,
			&summary.MessageCount,
		); err != nil {
			return nil, fmt.Errorf("scan conversation summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations rows: %w", err)
	}
	return summaries, nil
}

func (s *ConversationStore) UpdateTitle(ctx context.Context, userID int64, conversationID, title string) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE rasid_conversations
		 SET title = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3`,
		title,
		conversationID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (s *ConversationStore) DeleteConversation(ctx context.Context, userID int64, conversationID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM rasid_messages
		 WHERE conversation_id IN (
			SELECT id FROM rasid_conversations WHERE id = $1 AND user_id = $2
		 )`,
		conversationID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	result, err := tx.ExecContext(
		ctx,
		`DELETE FROM rasid_conversations WHERE id = $1 AND user_id = $2`,
		conversationID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConversationNotFound
	}
	return tx.Commit()
}

// GetRecentMessages returns the trailing window of a conversation in
// chronological order, for replay into the next turn.
func (s *ConversationStore) GetRecentMessages(ctx context.Context, userID int64, conversationID string, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = defaultMaxHistoryMessages
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, conversation_id, role, content, tools_used, created_at FROM (
			SELECT m.id, m.conversation_id, m.role, m.content,
			       COALESCE(m.tools_used, 'null') AS tools_used, m.created_at
			FROM rasid_messages m
			JOIN rasid_conversations c ON m.conversation_id = c.id
			WHERE m.conversation_id = $1 AND c.user_id = $2
			ORDER BY m.created_at DESC
			LIMIT $3
		 ) recent ORDER BY created_at ASC`,
		conversationID,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var message StoredMessage
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Role,
			&message.Content,
			&message.ToolsUsed,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get messages rows: %w", err)
	}
	return messages, nil
}

func (s *ConversationStore) fetchMessages(ctx context.Context, userID int64, conversationID string) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT m.id, m.conversation_id, m.role, m.content,
		        COALESCE(m.tools_used, 'null'), m.created_at
		 FROM rasid_messages m
		 JOIN rasid_conversations c ON m.conversation_id = c.id
		 WHERE m.conversation_id = $1 AND c.user_id = $2
		 ORDER BY m.created_at ASC`,
		conversationID,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var message StoredMessage
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Role,
			&message.Content,
			&message.ToolsUsed,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get messages rows: %w", err)
	}
	return messages, nil
}
