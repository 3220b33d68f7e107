package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	var metadata any
	if msg.Metadata != nil {
		raw, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("marshal message metadata: %w", err)
		}
		metadata = raw
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO messages (id, content, sender, chat_session_id, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, msg.ID, msg.Content, msg.Sender, msg.ChatSessionID, metadata, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, content, sender, chat_session_id, metadata, created_at
FROM messages
WHERE chat_session_id = $1
ORDER BY created_at ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		var metadataRaw []byte
		if err := rows.Scan(
			&msg.ID,
			&msg.Content,
			&msg.Sender,
			&msg.ChatSessionID,
			&metadataRaw,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if len(metadataRaw) > 0 {
			var meta domain.AnswerMetadata
			if err := json.Unmarshal(metadataRaw, &meta); err != nil {
				return nil, fmt.Errorf("unmarshal message metadata: %w", err)
			}
			msg.Metadata = &meta
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}
