package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// QuestionSource supplies the ordered question list for a paper. The engine
// itself receives questions at construction; this interface is implemented
// by the catalog service (with fixture fallback) and consumed by the session
// factory.
type QuestionSource interface {
	Questions(ctx context.Context, paperID uuid.UUID) ([]model.Question, error)
}

// AttemptSink persists a finalized attempt. Best-effort: the results view
// renders the in-memory score regardless of whether this call succeeds.
type AttemptSink interface {
	SaveAttempt(ctx context.Context, attempt *model.TestAttempt) (uuid.UUID, error)
}

// AudioLoader fetches an audio resource and reports its duration. A failed
// load surfaces as a LoadError on the owning question and nothing else.
type AudioLoader interface {
	Load(ctx context.Context, ref string) (time.Duration, error)
}
