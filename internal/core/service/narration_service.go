package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// NarrationDedup remembers which memories already have narration.
type NarrationDedup interface {
	IsDuplicate(ctx context.Context, memoryID int64) (bool, error)
	Mark(ctx context.Context, memoryID int64) error
}

type narrationService struct {
	tts     ports.NarrationSynthesizer
	gateway ports.MemoryGateway
	dedup   NarrationDedup
	log     zerolog.Logger
}

// NewNarrationService returns a NarrationService. dedup may be nil.
func NewNarrationService(tts ports.NarrationSynthesizer, gateway ports.MemoryGateway, dedup NarrationDedup, log zerolog.Logger) ports.NarrationService {
	return &narrationService{tts: tts, gateway: gateway, dedup: dedup, log: log}
}

// Process synthesises the memory text and attaches it as a data URI.
func (s *narrationService) Process(ctx context.Context, job ports.NarrationJob) error {
	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, job.MemoryID)
		if err != nil {
			s.log.Warn().Err(err).Int64("memory_id", job.MemoryID).Msg("dedup check failed, processing anyway")
		} else if dup {
			s.log.Debug().Int64("memory_id", job.MemoryID).Msg("narration already generated")
			return nil
		}
	}

	audio, contentType, err := s.tts.Synthesize(ctx, job.Text, job.Language)
	if err != nil {
		return fmt.Errorf("narrate memory %d: %w", job.MemoryID, err)
	}
	if contentType == "" {
		contentType = "audio/wav"
	}
	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(audio)

	if err := s.gateway.UploadNarration(ctx, job.Token, job.MemoryID, job.UserID, dataURI); err != nil {
		return fmt.Errorf("narrate memory %d: upload: %w", job.MemoryID, err)
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, job.MemoryID); err != nil {
			s.log.Warn().Err(err).Int64("memory_id", job.MemoryID).Msg("failed to set dedup key")
		}
	}

	s.log.Info().
		Int64("memory_id", job.MemoryID).
		Str("language", string(job.Language)).
		Int("bytes", len(audio)).
		Msg("narration uploaded")
	return nil
}
