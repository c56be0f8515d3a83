package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	progressout "japa/internal/modules/progress/adapter/out"
	"japa/internal/modules/progress/dto"
	progressin "japa/internal/modules/progress/port/in"
	"japa/internal/modules/progress/service"
	"japa/internal/modules/progress/usecase"
	apperrors "japa/internal/platform/errors"
	"japa/internal/platform/kvstore"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newInteractor(t *testing.T, clk *fakeClock) (progressin.Usecase, kvstore.Store) {
	t.Helper()
	kv, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	svc := service.NewProgressService(clk, progressout.NewKVDocumentStore(kv, "theme"), nil)
	return usecase.NewInteractor(svc, progressout.NewFileBackupStore(), clk), kv
}

func TestSetGoalParsesLeadingInteger(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, &fakeClock{now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local)})
	out, err := uc.SetGoal(context.Background(), " 12 rounds")
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if out.Document.DailyGoal != 12 || !out.Persisted {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Document.RecentActivity[0].Message != "Set daily goal to 12 rounds" || out.Document.RecentActivity[0].Kind != "goal" {
		t.Fatalf("unexpected activity: %+v", out.Document.RecentActivity[0])
	}
	if _, err := uc.SetGoal(context.Background(), "abc"); !errors.Is(err, apperrors.ErrInvalidGoal) {
		t.Fatalf("expected invalid goal, got %v", err)
	}
	if _, err := uc.SetGoalPreset(context.Background(), 7); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid preset, got %v", err)
	}
	preset, err := uc.SetGoalPreset(context.Background(), 5)
	if err != nil || preset.Document.DailyGoal != 48 {
		t.Fatalf("preset 5 should be 48 rounds: %+v %v", preset, err)
	}
}

func TestCompleteRoundReportsGoal(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, &fakeClock{now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local)})
	if _, err := uc.SetGoal(context.Background(), "2"); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	first, _ := uc.CompleteRound(context.Background())
	second, _ := uc.CompleteRound(context.Background())
	if first.GoalAchieved || !second.GoalAchieved {
		t.Fatalf("goal should be reached on the second round: %+v %+v", first, second)
	}
	if second.Document.Progress != 1 || second.TodayCount != 2 {
		t.Fatalf("unexpected progress: %+v", second)
	}
}

func TestClearScopes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, kv := newInteractor(t, &fakeClock{now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local)})
	if err := kv.Set(ctx, "theme", []byte(`"light"`)); err != nil {
		t.Fatalf("seed theme: %v", err)
	}
	if err := kv.Set(ctx, "audioSettings", []byte(`{}`)); err != nil {
		t.Fatalf("seed audio: %v", err)
	}
	if _, err := uc.CompleteRound(ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := uc.ClearAll(ctx, dto.ClearProgress); err != nil {
		t.Fatalf("clear progress: %v", err)
	}
	if _, err := kv.Get(ctx, "audioSettings"); err != nil {
		t.Fatalf("progress scope must keep audio settings: %v", err)
	}

	out, err := uc.ClearAll(ctx, dto.ClearEverything)
	if err != nil {
		t.Fatalf("clear everything: %v", err)
	}
	if out.Document.TotalRounds != 0 || out.Document.DailyGoal != 16 {
		t.Fatalf("expected defaults: %+v", out.Document)
	}
	if _, err := kv.Get(ctx, "audioSettings"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("everything scope must drop audio settings, got %v", err)
	}
	if theme, err := kv.Get(ctx, "theme"); err != nil || string(theme) != `"light"` {
		t.Fatalf("theme must survive: %q %v", theme, err)
	}
	if _, err := uc.ClearAll(ctx, dto.ClearScope("bogus")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid scope, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local)}
	uc, _ := newInteractor(t, clk)
	for i := 0; i < 3; i++ {
		if _, err := uc.CompleteRound(ctx); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}
	dir := t.TempDir()
	exported, err := uc.Export(ctx, dto.ExportInput{Dir: dir})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(exported.Path) != "japa-backup-2026-04-01.json" {
		t.Fatalf("unexpected backup path %q", exported.Path)
	}

	other, _ := newInteractor(t, clk)
	out, err := other.Import(ctx, dto.ImportInput{Path: exported.Path})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.Document.TotalRounds != 3 || out.Document.TodayCount != 3 || len(out.Document.RecentActivity) != 3 {
		t.Fatalf("unexpected import: %+v", out.Document)
	}
}

func TestImportMissingFile(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, &fakeClock{now: time.Now()})
	_, err := uc.Import(context.Background(), dto.ImportInput{Path: filepath.Join(t.TempDir(), "nope.json")})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Import(context.Background(), dto.ImportInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestImportRejectsMalformedBackup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, kv := newInteractor(t, &fakeClock{now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local)})
	if _, err := uc.CompleteRound(ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}
	before, _ := kv.Get(ctx, "progress")

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"totalRounds":"many"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := uc.Import(ctx, dto.ImportInput{Path: path}); !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
	after, _ := kv.Get(ctx, "progress")
	if string(before) != string(after) {
		t.Fatalf("stored document changed")
	}
}
