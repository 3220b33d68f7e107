package ports

import (
	"context"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

// Embedder builds vectors for chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TextGenerator is a single-call language model handle. GenerateJSON asks the
// model for a strict JSON object; parsing stays with the caller.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Chunker splits source text into page-tagged chunks.
type Chunker interface {
	Split(text, documentID string) []domain.DocumentChunk
}

// VectorStore owns the chunk embedding index. Load reports absence of a
// persisted index as ok=false, not an error. Search must be safe for
// concurrent readers once the index is in memory.
type VectorStore interface {
	Load(ctx context.Context) (bool, error)
	Rebuild(ctx context.Context, chunks []domain.DocumentChunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, k int) ([]domain.RetrievalResult, error)
	Ready() bool
}

// DocumentSource reads the source regulation document.
type DocumentSource interface {
	FullText(ctx context.Context) (string, error)
	Exists() bool
}

// ReindexQueue publishes/consumes index rebuild events.
type ReindexQueue interface {
	PublishReindexRequested(ctx context.Context, reason string) error
	SubscribeReindexRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionStore persists chat sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.ChatSession) error
	GetByID(ctx context.Context, id string) (*domain.ChatSession, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ChatSession, error)
	UpdateTitle(ctx context.Context, userID, sessionID, title string) error
	TouchLastMessage(ctx context.Context, sessionID, lastMessage string) error
	Delete(ctx context.Context, userID, sessionID string) error
}

// MessageStore persists chat messages in chronological order.
type MessageStore interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenManager issues and validates auth tokens.
type TokenManager interface {
	Issue(userID, email string) (string, error)
	Validate(token string) (userID, email string, err error)
}
