package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

type fakeGenerator struct {
	responses []string
	err       error
	prompts   []string
}

func (g *fakeGenerator) next(prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", fmt.Errorf("fake generator exhausted")
	}
	out := g.responses[0]
	g.responses = g.responses[1:]
	return out, nil
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return g.next(prompt)
}

func (g *fakeGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	return g.next(prompt)
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

type fakeVectorStore struct {
	ready      bool
	loadOK     bool
	loadErr    error
	rebuildErr error
	results    []domain.RetrievalResult
	searchErr  error

	loadCalls    int
	rebuildCalls int
	chunks       []domain.DocumentChunk
}

func (s *fakeVectorStore) Load(context.Context) (bool, error) {
	s.loadCalls++
	if s.loadErr != nil {
		return false, s.loadErr
	}
	if s.loadOK {
		s.ready = true
	}
	return s.loadOK, nil
}

func (s *fakeVectorStore) Rebuild(_ context.Context, chunks []domain.DocumentChunk, _ [][]float32) error {
	s.rebuildCalls++
	if s.rebuildErr != nil {
		return s.rebuildErr
	}
	s.chunks = chunks
	s.ready = true
	return nil
}

func (s *fakeVectorStore) Search(context.Context, []float32, int) ([]domain.RetrievalResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *fakeVectorStore) Ready() bool { return s.ready }

type fakeSource struct {
	text   string
	exists bool
	err    error
}

func (s *fakeSource) FullText(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *fakeSource) Exists() bool { return s.exists }

type fakeChunker struct{}

func (fakeChunker) Split(text, documentID string) []domain.DocumentChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	chunks := make([]domain.DocumentChunk, 0)
	for i, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, domain.DocumentChunk{
			DocumentID: documentID,
			Content:    part,
			PageNumber: i + 1,
		})
	}
	return chunks
}

type fakeSessionStore struct {
	sessions map[string]*domain.ChatSession
	touched  map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*domain.ChatSession),
		touched:  make(map[string]string),
	}
}

func (s *fakeSessionStore) Create(_ context.Context, session *domain.ChatSession) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, id string) (*domain.ChatSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get chat session", fmt.Errorf("missing"))
	}
	return session, nil
}

func (s *fakeSessionStore) ListByUser(_ context.Context, userID string) ([]domain.ChatSession, error) {
	out := make([]domain.ChatSession, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *fakeSessionStore) UpdateTitle(_ context.Context, userID, sessionID, title string) error {
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return domain.WrapError(domain.ErrNotFound, "update session title", fmt.Errorf("missing"))
	}
	session.Title = title
	return nil
}

func (s *fakeSessionStore) TouchLastMessage(_ context.Context, sessionID, lastMessage string) error {
	s.touched[sessionID] = lastMessage
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, userID, sessionID string) error {
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return domain.WrapError(domain.ErrNotFound, "delete session", fmt.Errorf("missing"))
	}
	delete(s.sessions, sessionID)
	return nil
}

type fakeMessageStore struct {
	messages  []domain.Message
	createErr error
}

func (s *fakeMessageStore) Create(_ context.Context, msg *domain.Message) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeMessageStore) ListBySession(_ context.Context, sessionID string) ([]domain.Message, error) {
	out := make([]domain.Message, 0)
	for _, msg := range s.messages {
		if msg.ChatSessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get user", fmt.Errorf("missing"))
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get user", fmt.Errorf("missing"))
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get user", fmt.Errorf("missing"))
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Verify(password, hash string) bool { return hash == "hash:"+password }

type fakeTokens struct{}

func (fakeTokens) Issue(userID, email string) (string, error) {
	return "token:" + userID + ":" + email, nil
}

func (fakeTokens) Validate(token string) (string, string, error) {
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "token" {
		return "", "", domain.WrapError(domain.ErrUnauthorized, "validate token", fmt.Errorf("bad token"))
	}
	return parts[1], parts[2], nil
}

type fakePipeline struct {
	result *domain.PipelineResult
	err    error

	gotQuery   string
	gotRegion  string
	gotHistory []domain.ConversationTurn
}

func (p *fakePipeline) ProcessQuery(_ context.Context, query, region string, history []domain.ConversationTurn) (*domain.PipelineResult, error) {
	p.gotQuery = query
	p.gotRegion = region
	p.gotHistory = history
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}
