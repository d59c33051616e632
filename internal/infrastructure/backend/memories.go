package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

type createMemoryRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	DateOfEvent string `json:"date_of_event"`
}

type createMemoryResponse struct {
	MemoryID int64 `json:"memory_id"`
}

type imagesRequest struct {
	MemoryID int64    `json:"memory_id"`
	Images   []string `json:"images"`
}

type narrationRequest struct {
	MemoryID  int64  `json:"memory_id"`
	AudioData string `json:"audio_data"`
	UserID    int64  `json:"user_id"`
}

func (c *Client) ListMemories(ctx context.Context, token string) ([]domain.Memory, error) {
	var out []domain.Memory
	if err := c.do(ctx, "list_memories", http.MethodGet, "/api/memory", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMemory(ctx context.Context, token string, collaborationID int64, in ports.MemoryInput) (int64, error) {
	var out createMemoryResponse
	path := fmt.Sprintf("/api/collaborations/%d/memories/new", collaborationID)
	err := c.do(ctx, "create_memory", http.MethodPost, path, token, createMemoryRequest{
		Title:       in.Title,
		Content:     in.Content,
		DateOfEvent: in.DateOfEvent,
	}, &out)
	if err != nil {
		return 0, err
	}
	return out.MemoryID, nil
}

func (c *Client) DeleteMemory(ctx context.Context, token string, memoryID int64) error {
	return c.do(ctx, "delete_memory", http.MethodDelete, fmt.Sprintf("/api/memory/%d", memoryID), token, nil, nil)
}

func (c *Client) UploadImages(ctx context.Context, token string, memoryID int64, images []string) error {
	return c.do(ctx, "upload_images", http.MethodPost, "/api/images/base64/bulk", token,
		imagesRequest{MemoryID: memoryID, Images: images}, nil)
}

func (c *Client) UploadNarration(ctx context.Context, token string, memoryID, userID int64, audio string) error {
	return c.do(ctx, "upload_narration", http.MethodPost, "/api/tts/audio/base64", token,
		narrationRequest{MemoryID: memoryID, AudioData: audio, UserID: userID}, nil)
}
