package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"japa/internal/modules/progress/domain"
	progressout "japa/internal/modules/progress/port/out"
	"japa/internal/platform/clock"
	apperrors "japa/internal/platform/errors"
	"japa/internal/platform/logging"
)

// ProgressService owns the in-memory mirror of the progress document and is
// its only writer. Every mutation is applied to the mirror first and then
// written through; a failed write is logged and reported, never undone.
//
// Not safe for concurrent use: callers serialize access on one loop.
type ProgressService struct {
	clock  clock.Clock
	store  progressout.DocumentStore
	logger *zap.Logger

	doc    domain.Document
	loaded bool
}

func NewProgressService(clock clock.Clock, store progressout.DocumentStore, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		clock:  clock,
		store:  store,
		logger: logging.OrNop(logger),
		doc:    domain.DefaultDocument(),
	}
}

// Load replaces the mirror with the stored document, or defaults when
// nothing usable is stored. It never fails.
func (s *ProgressService) Load(ctx context.Context) domain.Document {
	s.loaded = true
	payload, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("load progress failed, using defaults", zap.Error(err))
		}
		s.doc = domain.DefaultDocument()
		return s.doc.Clone()
	}
	doc, rejected := domain.DecodeDocument(payload)
	if len(rejected) > 0 {
		s.logger.Warn("progress fields reset to defaults", zap.Strings("fields", rejected))
	}
	s.doc = doc
	return s.doc.Clone()
}

func (s *ProgressService) ensureLoaded(ctx context.Context) {
	if !s.loaded {
		s.Load(ctx)
	}
}

// Save writes the whole mirror and reports whether it reached the store.
func (s *ProgressService) Save(ctx context.Context) bool {
	return s.persist(ctx, "save")
}

func (s *ProgressService) persist(ctx context.Context, op string) bool {
	payload, err := domain.EncodeDocument(s.doc)
	if err == nil {
		err = s.store.Save(ctx, payload)
	}
	if err != nil {
		s.logger.Error("persist progress failed", zap.String("op", op), zap.Error(err))
		return false
	}
	s.logger.Debug("progress persisted", zap.String("op", op), zap.Int("bytes", len(payload)))
	return true
}

func (s *ProgressService) Document(ctx context.Context) domain.Document {
	s.ensureLoaded(ctx)
	return s.doc.Clone()
}

func (s *ProgressService) CompleteRound(ctx context.Context) (domain.RoundOutcome, domain.Document, bool) {
	s.ensureLoaded(ctx)
	outcome := s.doc.CompleteRound(s.clock.Now())
	s.logger.Info("round completed",
		zap.Int("today", outcome.TodayCount),
		zap.Int("total", s.doc.TotalRounds),
		zap.Int("streak", s.doc.Streak),
		zap.Bool("goal_achieved", outcome.GoalAchieved),
	)
	persisted := s.persist(ctx, "complete_round")
	return outcome, s.doc.Clone(), persisted
}

func (s *ProgressService) SyncBeads(ctx context.Context, beads int) (domain.Document, bool, error) {
	s.ensureLoaded(ctx)
	if err := s.doc.SetBeads(beads); err != nil {
		return s.doc.Clone(), false, err
	}
	persisted := s.persist(ctx, "sync_beads")
	return s.doc.Clone(), persisted, nil
}

func (s *ProgressService) SetGoal(ctx context.Context, goal int) (domain.Document, bool, error) {
	s.ensureLoaded(ctx)
	if err := s.doc.SetGoal(goal, s.clock.Now()); err != nil {
		return s.doc.Clone(), false, err
	}
	persisted := s.persist(ctx, "set_goal")
	return s.doc.Clone(), persisted, nil
}

func (s *ProgressService) ResetBeads(ctx context.Context) (domain.Document, bool) {
	s.ensureLoaded(ctx)
	s.doc.ResetBeads(s.clock.Now())
	persisted := s.persist(ctx, "reset_beads")
	return s.doc.Clone(), persisted
}

func (s *ProgressService) ResetTodayRounds(ctx context.Context) (domain.Document, bool) {
	s.ensureLoaded(ctx)
	removed := s.doc.ResetTodayRounds(s.clock.Now())
	s.logger.Info("today's rounds reset", zap.Int("removed", removed))
	persisted := s.persist(ctx, "reset_today_rounds")
	return s.doc.Clone(), persisted
}

func (s *ProgressService) ResetCurrentProgress(ctx context.Context) (domain.Document, bool) {
	s.ensureLoaded(ctx)
	s.doc.ResetCurrentProgress(s.clock.Now())
	persisted := s.persist(ctx, "reset_current_progress")
	return s.doc.Clone(), persisted
}

// ClearAll drops stored state and installs a fresh default document. A
// failure to clear is logged; the fresh document is still installed.
func (s *ProgressService) ClearAll(ctx context.Context, everything bool) (domain.Document, bool) {
	s.loaded = true
	cleared := true
	if err := s.store.Clear(ctx, everything); err != nil {
		s.logger.Error("clear store failed", zap.Bool("everything", everything), zap.Error(err))
		cleared = false
	}
	s.doc = domain.DefaultDocument()
	persisted := s.persist(ctx, "clear_all")
	return s.doc.Clone(), cleared && persisted
}

func (s *ProgressService) Stats(ctx context.Context) domain.Stats {
	s.ensureLoaded(ctx)
	return s.doc.Stats(s.clock.Now())
}

// Backup returns the pretty-printed export and its dated file name.
func (s *ProgressService) Backup(ctx context.Context) (string, []byte, error) {
	s.ensureLoaded(ctx)
	payload, err := domain.EncodeBackup(s.doc)
	if err != nil {
		return "", nil, err
	}
	return domain.BackupFileName(s.clock.Now()), payload, nil
}

// Import merges a backup over the mirror. The bead count is session state
// and is kept from the mirror.
func (s *ProgressService) Import(ctx context.Context, payload []byte) (domain.Document, bool, error) {
	s.ensureLoaded(ctx)
	merged, err := domain.MergeImport(s.doc, payload)
	if err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		return s.doc.Clone(), false, err
	}
	merged.CurrentBeads = s.doc.CurrentBeads
	s.doc = merged
	persisted := s.persist(ctx, "import")
	return s.doc.Clone(), persisted, nil
}
