package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/session"
	"github.com/rs/zerolog"
)

// SessionService assembles session engines: one engine per connected test
// screen, wired to the catalog, the entitlement check, and the attempt
// persistence queue.
type SessionService struct {
	paperSvc   *PaperService
	subSvc     *SubscriptionService
	attemptSvc *AttemptService
	loader     session.AudioLoader
	log        zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	cfg *config.Config,
	paperSvc *PaperService,
	subSvc *SubscriptionService,
	attemptSvc *AttemptService,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		paperSvc:   paperSvc,
		subSvc:     subSvc,
		attemptSvc: attemptSvc,
		loader:     &fileAudioLoader{dir: cfg.AudioDir},
		log:        log.With().Str("component", "session_service").Logger(),
	}
}

// CreateEngine builds an engine for one user taking one paper, along with
// the student-safe payload describing what they are about to take. The
// engine is not started; the hosting connection starts it on the user's
// explicit start action.
func (s *SessionService) CreateEngine(ctx context.Context, userID, paperID uuid.UUID) (*session.Engine, *model.PaperPayload, error) {
	paper, err := s.paperSvc.GetByID(ctx, paperID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.paperSvc.QuestionsForSession(ctx, paper)
	if err != nil {
		return nil, nil, err
	}

	engine := session.New(userID, paper, questions, s.loader, s.attemptSvc,
		session.WithLogger(s.log))

	studentQuestions := make([]model.QuestionForStudent, len(questions))
	for i := range questions {
		studentQuestions[i] = questions[i].ForStudent()
	}
	payload := &model.PaperPayload{
		PaperID:         paper.ID,
		Title:           paper.Title,
		DurationMinutes: paper.DurationMinutes,
		Questions:       studentQuestions,
	}
	return engine, payload, nil
}

// HasActiveSubscription reports the entitlement consulted at session start.
func (s *SessionService) HasActiveSubscription(ctx context.Context, userID uuid.UUID) bool {
	return s.subSvc.HasActiveSubscription(ctx, userID)
}

// fileAudioLoader validates question audio against the local audio
// directory and reports a duration estimate. Clips are served to clients as
// static files; the engine only needs existence and length.
type fileAudioLoader struct {
	dir string
}

// mp3BytesPerSecond assumes the 128 kbps constant bitrate the content
// pipeline encodes at.
const mp3BytesPerSecond = 16 * 1024

func (l *fileAudioLoader) Load(ctx context.Context, ref string) (time.Duration, error) {
	clean := filepath.Clean("/" + ref)
	path := filepath.Join(l.dir, clean)
	if !strings.HasPrefix(path, filepath.Clean(l.dir)+string(os.PathSeparator)) {
		return 0, fmt.Errorf("audio ref escapes audio dir: %s", ref)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat audio: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("audio ref is a directory: %s", ref)
	}

	seconds := info.Size() / mp3BytesPerSecond
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second, nil
}
