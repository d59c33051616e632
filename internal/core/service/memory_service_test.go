package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

type stubQueue struct{ jobs []ports.NarrationJob }

func (q *stubQueue) Enqueue(job ports.NarrationJob) { q.jobs = append(q.jobs, job) }

func TestMemoryService_Create(t *testing.T) {
	b := newStubBackend()
	q := &stubQueue{}
	ws := loggedIn(b)
	svc := NewMemoryService(b, q, zerolog.Nop())

	res, err := svc.Create(context.Background(), ws, CreateMemoryRequest{
		CollaborationID: 3,
		Title:           " Fiesta ",
		Content:         "We danced all night.",
		DateOfEvent:     "1975-05-15",
		Images:          []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.MemoryID != 101 || res.ImagesUploaded != 2 || !res.NarrationQueued {
		t.Errorf("unexpected result: %+v", res)
	}
	if b.created[0].Title != "Fiesta" {
		t.Errorf("expected trimmed title, got %q", b.created[0].Title)
	}
	if len(q.jobs) != 1 || q.jobs[0].UserID != 7 || q.jobs[0].Language != domain.LanguageTagalog {
		t.Errorf("expected one tagalog narration job for user 7, got %+v", q.jobs)
	}
	if got := memoryIDs(ws.Memories.Items()); len(got) != 1 || got[0] != 101 {
		t.Errorf("expected memories reloaded, got %v", got)
	}
}

func TestMemoryService_CreateShowsMemoryWhenReloadFails(t *testing.T) {
	b := newStubBackend()
	b.memories = []domain.Memory{{ID: 5, Title: "Beach"}}
	ws := loggedIn(b)
	svc := NewMemoryService(b, nil, zerolog.Nop())
	_, _ = svc.List(context.Background(), ws)

	b.mu.Lock()
	b.memoriesErr = &domain.BackendError{Status: 503}
	b.mu.Unlock()

	res, err := svc.Create(context.Background(), ws, CreateMemoryRequest{CollaborationID: 3, Title: "Fiesta", DateOfEvent: "1975-05-15"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !res.ReloadFailed {
		t.Errorf("expected reload failure reported")
	}
	items := ws.Memories.Items()
	if got := memoryIDs(items); len(got) != 2 || got[0] != 5 || got[1] != 101 {
		t.Fatalf("expected new memory appended locally, got %v", got)
	}
	if items[1].Title != "Fiesta" || items[1].CreatorID != 7 {
		t.Errorf("unexpected local memory: %+v", items[1])
	}
}

func TestMemoryService_CreateLeavesUnloadedViewEmpty(t *testing.T) {
	b := newStubBackend()
	b.memoriesErr = &domain.BackendError{Status: 503}
	ws := loggedIn(b)

	if _, err := NewMemoryService(b, nil, zerolog.Nop()).Create(context.Background(), ws, CreateMemoryRequest{CollaborationID: 3, Title: "Fiesta"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ws.Memories.Loaded() || len(ws.Memories.Items()) != 0 {
		t.Errorf("expected unloaded view untouched")
	}
}

func TestMemoryService_Create_NoContentNoNarration(t *testing.T) {
	b := newStubBackend()
	q := &stubQueue{}
	ws := loggedIn(b)

	res, err := NewMemoryService(b, q, zerolog.Nop()).Create(context.Background(), ws, CreateMemoryRequest{CollaborationID: 3, Title: "Photo only", Content: "   "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.NarrationQueued || len(q.jobs) != 0 {
		t.Errorf("expected no narration for empty content")
	}
	if len(b.images) != 0 {
		t.Errorf("expected no image upload")
	}
}

func TestMemoryService_RequiresSession(t *testing.T) {
	b := newStubBackend()
	ws := newSettledWorkspace(b, &storageSet{}, "w")

	_, err := NewMemoryService(b, nil, zerolog.Nop()).Create(context.Background(), ws, CreateMemoryRequest{Title: "x"})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

type stubTTS struct {
	calls int
	err   error
}

func (s *stubTTS) Synthesize(context.Context, string, domain.NarrationLanguage) ([]byte, string, error) {
	s.calls++
	return []byte("RIFF"), "audio/wav", s.err
}

type stubNarrationDedup struct {
	dup    bool
	marked []int64
}

func (d *stubNarrationDedup) IsDuplicate(context.Context, int64) (bool, error) { return d.dup, nil }

func (d *stubNarrationDedup) Mark(_ context.Context, id int64) error {
	d.marked = append(d.marked, id)
	return nil
}

func TestNarrationService_Process(t *testing.T) {
	b := newStubBackend()
	tts := &stubTTS{}
	dedup := &stubNarrationDedup{}
	svc := NewNarrationService(tts, b, dedup, zerolog.Nop())

	err := svc.Process(context.Background(), ports.NarrationJob{MemoryID: 5, UserID: 7, Token: "t", Text: "Hello", Language: domain.LanguageEnglish})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.HasPrefix(b.narrations[5], "data:audio/wav;base64,") {
		t.Errorf("expected data URI upload, got %q", b.narrations[5])
	}
	if len(dedup.marked) != 1 {
		t.Errorf("expected memory marked as narrated")
	}
}

func TestNarrationService_DuplicateSkipped(t *testing.T) {
	b := newStubBackend()
	tts := &stubTTS{}
	svc := NewNarrationService(tts, b, &stubNarrationDedup{dup: true}, zerolog.Nop())

	if err := svc.Process(context.Background(), ports.NarrationJob{MemoryID: 5, Text: "Hello"}); err != nil {
		t.Fatalf("expected no error for duplicate, got: %v", err)
	}
	if tts.calls != 0 {
		t.Errorf("expected no synthesis for duplicate job")
	}
}

func TestNarrationService_SynthesisFailure(t *testing.T) {
	b := newStubBackend()
	svc := NewNarrationService(&stubTTS{err: errors.New("model cold")}, b, nil, zerolog.Nop())

	if err := svc.Process(context.Background(), ports.NarrationJob{MemoryID: 5, Text: "Hello"}); err == nil {
		t.Fatal("expected error")
	}
	if len(b.narrations) != 0 {
		t.Errorf("expected nothing uploaded")
	}
}
