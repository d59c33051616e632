package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// CreateMemoryRequest is the create-memory form. Images are base64 data URIs.
type CreateMemoryRequest struct {
	CollaborationID int64
	Title           string
	Content         string
	DateOfEvent     string
	Language        domain.NarrationLanguage
	Images          []string
}

// CreateMemoryResult reports what the create flow did.
type CreateMemoryResult struct {
	MemoryID        int64
	ImagesUploaded  int
	NarrationQueued bool
	ReloadFailed    bool
}

// MemoryService runs the memory flows on top of a workspace's Memories view.
type MemoryService struct {
	gateway ports.MemoryGateway
	queue   ports.NarrationQueue
	log     zerolog.Logger
}

// NewMemoryService returns a MemoryService. queue may be nil, in which case
// no narration is generated.
func NewMemoryService(gateway ports.MemoryGateway, queue ports.NarrationQueue, log zerolog.Logger) *MemoryService {
	return &MemoryService{gateway: gateway, queue: queue, log: log}
}

// List loads the caller's memories.
func (s *MemoryService) List(ctx context.Context, ws *Workspace) ([]domain.Memory, error) {
	return ws.Memories.Load(ctx)
}

// Create creates a memory in a collaboration, uploads its images and queues
// narration of its content. A loaded Memories view shows the new memory at
// once and is reloaded afterwards.
func (s *MemoryService) Create(ctx context.Context, ws *Workspace, req CreateMemoryRequest) (CreateMemoryResult, error) {
	token, ok := ws.Session.Credential(ctx)
	if !ok {
		return CreateMemoryResult{}, domain.ErrNotAuthenticated
	}
	user := ws.Session.Current().User

	memoryID, err := s.gateway.CreateMemory(ctx, token, req.CollaborationID, ports.MemoryInput{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		DateOfEvent: req.DateOfEvent,
	})
	if err != nil {
		return CreateMemoryResult{}, fmt.Errorf("create memory: %w", err)
	}
	res := CreateMemoryResult{MemoryID: memoryID}
	if ws.Memories.Loaded() {
		created := domain.Memory{
			ID:          memoryID,
			Title:       strings.TrimSpace(req.Title),
			Content:     req.Content,
			DateOfEvent: req.DateOfEvent,
		}
		if user != nil {
			created.CreatorID = user.ID
		}
		ws.Memories.Insert(created)
	}

	if len(req.Images) > 0 {
		if err := s.gateway.UploadImages(ctx, token, memoryID, req.Images); err != nil {
			return res, fmt.Errorf("create memory %d: upload images: %w", memoryID, err)
		}
		res.ImagesUploaded = len(req.Images)
	}

	if text := strings.TrimSpace(req.Content); text != "" && s.queue != nil && user != nil {
		lang := req.Language
		if lang == "" {
			lang = domain.LanguageTagalog
		}
		s.queue.Enqueue(ports.NarrationJob{
			MemoryID: memoryID,
			UserID:   user.ID,
			Token:    token,
			Text:     text,
			Language: lang,
		})
		res.NarrationQueued = true
	}

	if _, err := ws.Memories.Load(ctx); err != nil {
		s.log.Warn().Err(err).Int64("memory_id", memoryID).Msg("memories reload after create failed")
		res.ReloadFailed = true
	}
	return res, nil
}

// Delete removes a memory once the user has confirmed.
func (s *MemoryService) Delete(ctx context.Context, ws *Workspace, memoryID int64, confirmed bool) error {
	return ws.Memories.Delete(ctx, memoryID, confirmed, s.gateway.DeleteMemory)
}
