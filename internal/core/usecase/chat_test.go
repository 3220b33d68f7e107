package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "u-1", Email: "a@example.com", Username: "a", Region: "EMEA", IsActive: true}
}

func newChatFixture(pipeline *fakePipeline) (*ChatUsecase, *fakeSessionStore, *fakeMessageStore) {
	sessions := newFakeSessionStore()
	messages := &fakeMessageStore{}
	uc := NewChatUsecase(sessions, messages, pipeline, nil)
	return uc, sessions, messages
}

func TestPostMessageStoresBothSidesWithMetadata(t *testing.T) {
	pipeline := &fakePipeline{result: &domain.PipelineResult{
		Response:     "Stairs need 1.2m width.",
		Confidence:   0.88,
		ResponseType: domain.ResponseRAG,
		Sources:      []domain.Source{{PageNumber: 9, Section: "2500-9", Content: "stair width"}},
	}}
	uc, sessions, messages := newChatFixture(pipeline)
	user := testUser()

	session, err := uc.CreateSession(context.Background(), user.ID, "Stairs")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	userMsg, assistantMsg, err := uc.PostMessage(context.Background(), user, session.ID, "How wide must stairs be?")
	if err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	if userMsg.Sender != domain.RoleUser || assistantMsg.Sender != domain.RoleAssistant {
		t.Fatalf("senders wrong: %q %q", userMsg.Sender, assistantMsg.Sender)
	}
	if assistantMsg.Metadata == nil || assistantMsg.Metadata.Confidence != 0.88 {
		t.Fatalf("assistant metadata lost: %+v", assistantMsg.Metadata)
	}
	if len(messages.messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(messages.messages))
	}
	if pipeline.gotRegion != "EMEA" {
		t.Fatalf("user region not passed to pipeline: %q", pipeline.gotRegion)
	}
	if sessions.touched[session.ID] != "How wide must stairs be?" {
		t.Fatalf("session preview not updated: %q", sessions.touched[session.ID])
	}
}

func TestPostMessageKeepsUserMessageOnPipelineFailure(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("llm down")}
	uc, _, messages := newChatFixture(pipeline)
	user := testUser()

	session, _ := uc.CreateSession(context.Background(), user.ID, "")
	userMsg, assistantMsg, err := uc.PostMessage(context.Background(), user, session.ID, "question")
	if err == nil {
		t.Fatalf("expected pipeline error")
	}
	if userMsg == nil || assistantMsg != nil {
		t.Fatalf("user message must survive, assistant must not: %v %v", userMsg, assistantMsg)
	}
	if len(messages.messages) != 1 {
		t.Fatalf("expected only the user message stored, got %d", len(messages.messages))
	}
}

func TestPostMessagePassesPriorTurnsAsHistory(t *testing.T) {
	pipeline := &fakePipeline{result: &domain.PipelineResult{Response: "second answer", ResponseType: domain.ResponseRAG}}
	uc, _, _ := newChatFixture(pipeline)
	user := testUser()

	session, _ := uc.CreateSession(context.Background(), user.ID, "")
	if _, _, err := uc.PostMessage(context.Background(), user, session.ID, "first question"); err != nil {
		t.Fatalf("first PostMessage() error = %v", err)
	}
	if _, _, err := uc.PostMessage(context.Background(), user, session.ID, "second question"); err != nil {
		t.Fatalf("second PostMessage() error = %v", err)
	}

	if len(pipeline.gotHistory) != 2 {
		t.Fatalf("expected 2 history turns (first q/a), got %d", len(pipeline.gotHistory))
	}
	if pipeline.gotHistory[0].Content != "first question" || pipeline.gotHistory[1].Content != "second answer" {
		t.Fatalf("history out of order: %+v", pipeline.gotHistory)
	}
	if pipeline.gotQuery != "second question" {
		t.Fatalf("current question must not be in history, query = %q", pipeline.gotQuery)
	}
}

func TestPostMessageRejectsEmptyContent(t *testing.T) {
	uc, _, _ := newChatFixture(&fakePipeline{})
	user := testUser()
	session, _ := uc.CreateSession(context.Background(), user.ID, "")

	_, _, err := uc.PostMessage(context.Background(), user, session.ID, "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestForeignSessionLooksMissing(t *testing.T) {
	uc, sessions, _ := newChatFixture(&fakePipeline{})
	_ = sessions.Create(context.Background(), &domain.ChatSession{ID: "s-other", UserID: "someone-else"})

	_, _, err := uc.PostMessage(context.Background(), testUser(), "s-other", "hello")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign session, got %v", err)
	}
	if _, err := uc.ListMessages(context.Background(), "u-1", "s-other"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound listing foreign session, got %v", err)
	}
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	uc, _, _ := newChatFixture(&fakePipeline{})
	session, err := uc.CreateSession(context.Background(), "u-1", "  ")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.Title != defaultSessionTitle {
		t.Fatalf("expected default title, got %q", session.Title)
	}
}

func TestRenameSessionValidatesTitle(t *testing.T) {
	uc, _, _ := newChatFixture(&fakePipeline{})
	session, _ := uc.CreateSession(context.Background(), "u-1", "old")

	if err := uc.RenameSession(context.Background(), "u-1", session.ID, ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := uc.RenameSession(context.Background(), "u-1", session.ID, "new title"); err != nil {
		t.Fatalf("RenameSession() error = %v", err)
	}
}
