package ports

import (
	"context"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// NarrationJob asks for a memory's text to be narrated and attached as audio.
type NarrationJob struct {
	MemoryID int64
	UserID   int64
	Token    string
	Text     string
	Language domain.NarrationLanguage
}

// NarrationService generates and uploads narration audio for one job.
type NarrationService interface {
	Process(ctx context.Context, job NarrationJob) error
}

// NarrationQueue accepts narration jobs for asynchronous processing.
type NarrationQueue interface {
	Enqueue(job NarrationJob)
}
