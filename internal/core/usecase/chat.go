package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
	"github.com/dkoval/hotelreg-assistant/internal/core/ports"
)

const defaultSessionTitle = "New Chat"

// ChatUsecase owns chat sessions and drives the query pipeline for each
// posted message.
type ChatUsecase struct {
	sessions ports.SessionStore
	messages ports.MessageStore
	pipeline ports.QueryPipeline
	logger   *slog.Logger
}

func NewChatUsecase(
	sessions ports.SessionStore,
	messages ports.MessageStore,
	pipeline ports.QueryPipeline,
	logger *slog.Logger,
) *ChatUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatUsecase{
		sessions: sessions,
		messages: messages,
		pipeline: pipeline,
		logger:   logger,
	}
}

func (uc *ChatUsecase) CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSessionTitle
	}
	session := &domain.ChatSession{
		ID:     uuid.NewString(),
		Title:  title,
		UserID: userID,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (uc *ChatUsecase) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	return uc.sessions.ListByUser(ctx, userID)
}

func (uc *ChatUsecase) RenameSession(ctx context.Context, userID, sessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.WrapError(domain.ErrInvalidInput, "rename session", fmt.Errorf("empty title"))
	}
	return uc.sessions.UpdateTitle(ctx, userID, sessionID, title)
}

func (uc *ChatUsecase) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return uc.sessions.Delete(ctx, userID, sessionID)
}

// PostMessage persists the user's message before running the pipeline so a
// failed answer never loses the question. On success the assistant reply is
// stored with its answer metadata and the session preview is updated.
func (uc *ChatUsecase) PostMessage(
	ctx context.Context,
	user *domain.User,
	sessionID, content string,
) (*domain.Message, *domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "post message", fmt.Errorf("empty content"))
	}

	session, err := uc.ownedSession(ctx, user.ID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	history, err := uc.history(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}

	userMsg := &domain.Message{
		ID:            uuid.NewString(),
		Content:       content,
		Sender:        domain.RoleUser,
		ChatSessionID: session.ID,
	}
	if err := uc.messages.Create(ctx, userMsg); err != nil {
		return nil, nil, fmt.Errorf("store user message: %w", err)
	}

	result, err := uc.pipeline.ProcessQuery(ctx, content, user.Region, history)
	if err != nil {
		return userMsg, nil, fmt.Errorf("process query: %w", err)
	}

	assistantMsg := &domain.Message{
		ID:            uuid.NewString(),
		Content:       result.Response,
		Sender:        domain.RoleAssistant,
		ChatSessionID: session.ID,
		Metadata: &domain.AnswerMetadata{
			Confidence:   result.Confidence,
			ResponseType: result.ResponseType,
			Sources:      result.Sources,
		},
	}
	if err := uc.messages.Create(ctx, assistantMsg); err != nil {
		return userMsg, nil, fmt.Errorf("store assistant message: %w", err)
	}

	if err := uc.sessions.TouchLastMessage(ctx, session.ID, content); err != nil {
		uc.logger.Warn("touch_session_failed", "session_id", session.ID, "error", err)
	}

	return userMsg, assistantMsg, nil
}

func (uc *ChatUsecase) ListMessages(ctx context.Context, userID, sessionID string) ([]domain.Message, error) {
	if _, err := uc.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return uc.messages.ListBySession(ctx, sessionID)
}

func (uc *ChatUsecase) ownedSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Report foreign sessions as missing rather than forbidden.
	if session.UserID != userID {
		return nil, domain.WrapError(domain.ErrNotFound, "get session", fmt.Errorf("session owned by another user"))
	}
	return session, nil
}

func (uc *ChatUsecase) history(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	messages, err := uc.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	history := make([]domain.ConversationTurn, 0, len(messages))
	for _, msg := range messages {
		history = append(history, domain.ConversationTurn{
			Role:    msg.Sender,
			Content: msg.Content,
		})
	}
	return history, nil
}
