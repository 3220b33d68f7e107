package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO chat_sessions (id, title, user_id, last_message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, session.ID, session.Title, session.UserID, session.LastMessage, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert chat session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, user_id, last_message, created_at, updated_at
FROM chat_sessions
WHERE id = $1
`, id)

	var session domain.ChatSession
	err := row.Scan(
		&session.ID,
		&session.Title,
		&session.UserID,
		&session.LastMessage,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get chat session", err)
		}
		return nil, fmt.Errorf("scan chat session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, user_id, last_message, created_at, updated_at
FROM chat_sessions
WHERE user_id = $1
ORDER BY updated_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ChatSession, 0)
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.Title,
			&session.UserID,
			&session.LastMessage,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return out, nil
}

func (r *SessionRepository) UpdateTitle(ctx context.Context, userID, sessionID, title string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE chat_sessions
SET title = $3, updated_at = $4
WHERE id = $2 AND user_id = $1
`, userID, sessionID, title, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update session title: %w", err)
	}
	return requireRow(res, "update session title")
}

func (r *SessionRepository) TouchLastMessage(ctx context.Context, sessionID, lastMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE chat_sessions
SET last_message = $2, updated_at = $3
WHERE id = $1
`, sessionID, lastMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return requireRow(res, "touch session")
}

func (r *SessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM chat_sessions
WHERE id = $2 AND user_id = $1
`, userID, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return requireRow(res, "delete session")
}

func requireRow(res sql.Result, operation string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, operation, sql.ErrNoRows)
	}
	return nil
}
