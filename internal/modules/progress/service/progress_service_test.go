package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"japa/internal/modules/progress/domain"
	"japa/internal/modules/progress/service"
	apperrors "japa/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type memStore struct {
	payload  []byte
	saves    int
	failSave bool
	cleared  []bool
}

func (s *memStore) Load(context.Context) ([]byte, error) {
	if s.payload == nil {
		return nil, apperrors.ErrNotFound
	}
	return append([]byte(nil), s.payload...), nil
}

func (s *memStore) Save(_ context.Context, payload []byte) error {
	if s.failSave {
		return errors.New("disk full")
	}
	s.saves++
	s.payload = append([]byte(nil), payload...)
	return nil
}

func (s *memStore) Clear(_ context.Context, everything bool) error {
	s.cleared = append(s.cleared, everything)
	s.payload = nil
	return nil
}

func day(d, hour int) time.Time {
	return time.Date(2026, 3, d, hour, 0, 0, 0, time.Local)
}

func TestLoadMissingGivesDefaults(t *testing.T) {
	t.Parallel()
	svc := service.NewProgressService(&fakeClock{now: day(1, 9)}, &memStore{}, nil)
	doc := svc.Load(context.Background())
	if diff := cmp.Diff(domain.DefaultDocument(), doc); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLogsRejectedFields(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.WarnLevel)
	store := &memStore{payload: []byte(`{"totalRounds":3,"dailyGoal":900}`)}
	svc := service.NewProgressService(&fakeClock{now: day(1, 9)}, store, zap.New(core))
	doc := svc.Load(context.Background())
	if doc.TotalRounds != 3 || doc.DailyGoal != domain.DefaultGoal {
		t.Fatalf("unexpected load result: %+v", doc)
	}
	if logs.FilterMessage("progress fields reset to defaults").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestSaveOfLoadIsByteIdentical(t *testing.T) {
	t.Parallel()
	original := []byte(`{"totalRounds":5,"dailyGoal":8,"streak":2,"lastChantDate":"2026-03-01","dailyHistory":{"2026-02-28":2,"2026-03-01":3},"recentActivity":[{"message":"Completed round 3","type":"round","timestamp":"2026-03-01T03:30:00.000Z","date":"3/1/2026","time":"09:00 AM"}],"currentBeads":17}`)
	store := &memStore{payload: append([]byte(nil), original...)}
	svc := service.NewProgressService(&fakeClock{now: day(1, 9)}, store, nil)
	svc.Load(context.Background())
	if !svc.Save(context.Background()) {
		t.Fatalf("save should persist")
	}
	if string(store.payload) != string(original) {
		t.Fatalf("round trip changed bytes:\n%s\n%s", original, store.payload)
	}
}

func TestCompleteRoundPersists(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	clk := &fakeClock{now: day(2, 7)}
	svc := service.NewProgressService(clk, store, nil)
	outcome, doc, persisted := svc.CompleteRound(context.Background())
	if !persisted || store.saves != 1 {
		t.Fatalf("expected one persisted save, got persisted=%v saves=%d", persisted, store.saves)
	}
	if outcome.TodayCount != 1 || outcome.GoalAchieved {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if doc.TotalRounds != 1 || doc.Streak != 1 || doc.RecentActivity[0].Message != "Completed round 1" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	reloaded := service.NewProgressService(clk, store, nil).Load(context.Background())
	if diff := cmp.Diff(doc, reloaded); diff != "" {
		t.Fatalf("reload mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistFailureKeepsMemoryAndLogs(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.ErrorLevel)
	store := &memStore{failSave: true}
	svc := service.NewProgressService(&fakeClock{now: day(2, 7)}, store, zap.New(core))

	_, doc, persisted := svc.CompleteRound(context.Background())
	if persisted {
		t.Fatalf("save should have failed")
	}
	if doc.TotalRounds != 1 || svc.Document(context.Background()).TotalRounds != 1 {
		t.Fatalf("in-memory progress must survive a failed write")
	}
	entries := logs.FilterMessage("persist progress failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["op"]; got != "complete_round" {
		t.Fatalf("unexpected op field: %v", got)
	}
}

func TestSetGoalOutOfRangeLeavesDocument(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := service.NewProgressService(&fakeClock{now: day(2, 7)}, store, nil)
	before := svc.Document(context.Background())
	doc, persisted, err := svc.SetGoal(context.Background(), 65)
	if !errors.Is(err, apperrors.ErrInvalidGoal) {
		t.Fatalf("expected invalid goal, got %v", err)
	}
	if persisted || store.saves != 0 {
		t.Fatalf("rejected goal must not be written")
	}
	if diff := cmp.Diff(before, doc); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
}

func TestSyncBeadsRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	svc := service.NewProgressService(&fakeClock{now: day(2, 7)}, &memStore{}, nil)
	if _, _, err := svc.SyncBeads(context.Background(), 108); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	doc, persisted, err := svc.SyncBeads(context.Background(), 42)
	if err != nil || !persisted || doc.CurrentBeads != 42 {
		t.Fatalf("sync failed: doc=%+v persisted=%v err=%v", doc, persisted, err)
	}
	if len(doc.RecentActivity) != 0 {
		t.Fatalf("bead sync must not log activity")
	}
}

func TestClearAllInstallsDefaults(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := service.NewProgressService(&fakeClock{now: day(2, 7)}, store, nil)
	svc.CompleteRound(context.Background())

	doc, persisted := svc.ClearAll(context.Background(), true)
	if !persisted {
		t.Fatalf("clear should persist defaults")
	}
	if diff := cmp.Diff(domain.DefaultDocument(), doc); diff != "" {
		t.Fatalf("clear mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true}, store.cleared); diff != "" {
		t.Fatalf("clear scope mismatch (-want +got):\n%s", diff)
	}
}

func TestImportMalformedLeavesStoredBytes(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := service.NewProgressService(&fakeClock{now: day(2, 7)}, store, nil)
	svc.CompleteRound(context.Background())
	before := string(store.payload)

	for _, payload := range []string{`not json`, `[1,2]`, `{"dailyGoal":0}`, `{"recentActivity":[{"message":"x","type":"bogus"}]}`} {
		if _, _, err := svc.Import(context.Background(), []byte(payload)); !errors.Is(err, apperrors.ErrInvalidFormat) {
			t.Fatalf("%s: expected invalid format, got %v", payload, err)
		}
	}
	if string(store.payload) != before {
		t.Fatalf("stored bytes changed after rejected imports")
	}
}

func TestImportMergesAndKeepsBeads(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := service.NewProgressService(&fakeClock{now: day(2, 7)}, store, nil)
	if _, _, err := svc.SyncBeads(context.Background(), 30); err != nil {
		t.Fatalf("sync: %v", err)
	}
	doc, persisted, err := svc.Import(context.Background(), []byte(`{"totalRounds":40,"dailyGoal":32,"currentBeads":99}`))
	if err != nil || !persisted {
		t.Fatalf("import failed: %v", err)
	}
	if doc.TotalRounds != 40 || doc.DailyGoal != 32 || doc.CurrentBeads != 30 {
		t.Fatalf("unexpected merge: %+v", doc)
	}
}

func TestBackupNameAndIndent(t *testing.T) {
	t.Parallel()
	svc := service.NewProgressService(&fakeClock{now: day(5, 12)}, &memStore{}, nil)
	name, payload, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if name != "japa-backup-2026-03-05.json" {
		t.Fatalf("unexpected name %q", name)
	}
	if len(payload) < 3 || string(payload[:4]) != "{\n  " {
		t.Fatalf("backup should be indented: %q", payload)
	}
}
