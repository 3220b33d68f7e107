package ports

import (
	"context"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

// QueryPipeline is the inbound contract for the RAG query pipeline.
type QueryPipeline interface {
	ProcessQuery(ctx context.Context, query, region string, history []domain.ConversationTurn) (*domain.PipelineResult, error)
}

// ChatService is the inbound contract for chat sessions and messages.
// PostMessage persists the user message, runs the pipeline and persists the
// assistant reply with its answer metadata.
type ChatService interface {
	CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error)
	RenameSession(ctx context.Context, userID, sessionID, title string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
	PostMessage(ctx context.Context, user *domain.User, sessionID, content string) (*domain.Message, *domain.Message, error)
	ListMessages(ctx context.Context, userID, sessionID string) ([]domain.Message, error)
}

// AuthService is the inbound contract for registration and login.
type AuthService interface {
	Register(ctx context.Context, email, username, password, region string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	UserFromToken(ctx context.Context, token string) (*domain.User, error)
}

// IndexRebuilder is the inbound contract for out-of-band index rebuilds.
type IndexRebuilder interface {
	Rebuild(ctx context.Context) error
}
