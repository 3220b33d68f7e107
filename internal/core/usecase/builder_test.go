package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

func TestBuildEmptyDocumentFails(t *testing.T) {
	store := &fakeVectorStore{}
	builder := NewIndexBuilder(&fakeSource{text: "   \n\n  ", exists: true}, fakeChunker{}, &fakeEmbedder{}, store, nil)

	err := builder.Build(context.Background())
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if store.rebuildCalls != 0 {
		t.Fatalf("empty document must not touch the index")
	}
}

func TestBuildChunksAndRebuildsIndex(t *testing.T) {
	store := &fakeVectorStore{}
	source := &fakeSource{text: "first paragraph.\n\nsecond paragraph.\n\nthird paragraph.", exists: true}
	builder := NewIndexBuilder(source, fakeChunker{}, &fakeEmbedder{}, store, nil)

	if err := builder.Build(context.Background()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if store.rebuildCalls != 1 {
		t.Fatalf("expected one rebuild, got %d", store.rebuildCalls)
	}
	if len(store.chunks) != 3 {
		t.Fatalf("expected 3 chunks indexed, got %d", len(store.chunks))
	}
}

func TestBuildEmbedderFailurePropagates(t *testing.T) {
	embedErr := errors.New("embeddings down")
	builder := NewIndexBuilder(
		&fakeSource{text: "content", exists: true},
		fakeChunker{},
		&fakeEmbedder{err: embedErr},
		&fakeVectorStore{},
		nil,
	)
	if err := builder.Build(context.Background()); !errors.Is(err, embedErr) {
		t.Fatalf("expected embed error, got %v", err)
	}
}

func TestEnsureLoadsPersistedIndex(t *testing.T) {
	store := &fakeVectorStore{loadOK: true}
	builder := NewIndexBuilder(&fakeSource{text: "doc", exists: true}, fakeChunker{}, &fakeEmbedder{}, store, nil)
	init := NewIndexInitializer(store, builder, nil)

	if err := init.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if store.rebuildCalls != 0 {
		t.Fatalf("must not rebuild when persisted index loads")
	}
}

func TestEnsureBuildsWhenIndexMissing(t *testing.T) {
	store := &fakeVectorStore{loadOK: false}
	builder := NewIndexBuilder(&fakeSource{text: "doc", exists: true}, fakeChunker{}, &fakeEmbedder{}, store, nil)
	init := NewIndexInitializer(store, builder, nil)

	if err := init.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if store.rebuildCalls != 1 {
		t.Fatalf("expected one build, got %d", store.rebuildCalls)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	store := &fakeVectorStore{loadOK: false}
	builder := NewIndexBuilder(&fakeSource{text: "doc", exists: true}, fakeChunker{}, &fakeEmbedder{}, store, nil)
	init := NewIndexInitializer(store, builder, nil)

	for i := 0; i < 3; i++ {
		if err := init.Ensure(context.Background()); err != nil {
			t.Fatalf("Ensure() #%d error = %v", i, err)
		}
	}
	if store.rebuildCalls != 1 {
		t.Fatalf("repeated Ensure must build once, got %d", store.rebuildCalls)
	}
	if store.loadCalls != 1 {
		t.Fatalf("repeated Ensure must load once, got %d", store.loadCalls)
	}
}

func TestEnsureLoadFailureIsIndexUnavailable(t *testing.T) {
	store := &fakeVectorStore{loadErr: errors.New("corrupt file")}
	builder := NewIndexBuilder(&fakeSource{text: "doc", exists: true}, fakeChunker{}, &fakeEmbedder{}, store, nil)
	init := NewIndexInitializer(store, builder, nil)

	if err := init.Ensure(context.Background()); !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestRebuildForcesFreshBuild(t *testing.T) {
	store := &fakeVectorStore{ready: true}
	builder := NewIndexBuilder(&fakeSource{text: "doc", exists: true}, fakeChunker{}, &fakeEmbedder{}, store, nil)
	init := NewIndexInitializer(store, builder, nil)

	if err := init.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if store.rebuildCalls != 1 {
		t.Fatalf("expected forced rebuild, got %d", store.rebuildCalls)
	}
}
