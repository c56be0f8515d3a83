package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "japa/internal/platform/errors"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, ist)
}

func strPtr(s string) *string { return &s }

func TestCompleteRoundStreakTransitions(t *testing.T) {
	t.Parallel()
	now := at(2026, 2, 25, 7, 30)
	cases := []struct {
		name       string
		last       *string
		streak     int
		wantStreak int
	}{
		{name: "first round ever", last: nil, streak: 0, wantStreak: 1},
		{name: "continues from yesterday", last: strPtr("2026-02-24"), streak: 4, wantStreak: 5},
		{name: "same day repeat", last: strPtr("2026-02-25"), streak: 3, wantStreak: 3},
		{name: "gap of five days", last: strPtr("2026-02-20"), streak: 9, wantStreak: 1},
		{name: "gap of two days", last: strPtr("2026-02-23"), streak: 2, wantStreak: 1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := DefaultDocument()
			doc.LastChantDate = tc.last
			doc.Streak = tc.streak
			doc.CompleteRound(now)
			if doc.Streak != tc.wantStreak {
				t.Fatalf("expected streak %d, got %d", tc.wantStreak, doc.Streak)
			}
			if doc.LastChantDate == nil || *doc.LastChantDate != "2026-02-25" {
				t.Fatalf("expected last chant date to be today, got %v", doc.LastChantDate)
			}
		})
	}
}

func TestStreakContinuesAcrossMonthAndYearBoundaries(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	doc.LastChantDate = strPtr("2026-02-28")
	doc.Streak = 7
	doc.CompleteRound(at(2026, 3, 1, 6, 0))
	if doc.Streak != 8 {
		t.Fatalf("expected month boundary to continue streak, got %d", doc.Streak)
	}

	doc.LastChantDate = strPtr("2025-12-31")
	doc.CompleteRound(at(2026, 1, 1, 0, 5))
	if doc.Streak != 9 {
		t.Fatalf("expected year boundary to continue streak, got %d", doc.Streak)
	}
}

func TestCompleteRoundBooksHistoryTotalsAndActivity(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	doc.CurrentBeads = 107
	now := at(2026, 2, 25, 9, 5)

	first := doc.CompleteRound(now)
	second := doc.CompleteRound(now)

	if first.TodayCount != 1 || second.TodayCount != 2 {
		t.Fatalf("unexpected today counts %d, %d", first.TodayCount, second.TodayCount)
	}
	if doc.TotalRounds != 2 || doc.DailyHistory["2026-02-25"] != 2 {
		t.Fatalf("expected lockstep totals, got total=%d history=%v", doc.TotalRounds, doc.DailyHistory)
	}
	if doc.CurrentBeads != 0 {
		t.Fatalf("expected beads reset, got %d", doc.CurrentBeads)
	}
	if len(doc.RecentActivity) != 2 {
		t.Fatalf("expected two activities, got %d", len(doc.RecentActivity))
	}
	got := doc.RecentActivity[0]
	want := Activity{
		Message:   "Completed round 2",
		Kind:      ActivityRound,
		Timestamp: "2026-02-25T03:35:00.000Z",
		Date:      "2/25/2026",
		Time:      "09:05 AM",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("activity mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteRoundUsesLocalCalendarDay(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	// 00:30 IST on the 25th is still the 24th in UTC.
	doc.CompleteRound(at(2026, 2, 25, 0, 30))
	if doc.DailyHistory["2026-02-25"] != 1 {
		t.Fatalf("expected local day key, got %v", doc.DailyHistory)
	}
}

func TestGoalAchievedFromThresholdOnward(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	doc.DailyGoal = 3
	now := at(2026, 2, 25, 10, 0)
	var achieved []bool
	for i := 0; i < 4; i++ {
		achieved = append(achieved, doc.CompleteRound(now).GoalAchieved)
	}
	if diff := cmp.Diff([]bool{false, false, true, true}, achieved); diff != "" {
		t.Fatalf("goal signal mismatch (-want +got):\n%s", diff)
	}
}

func TestActivityLogIsBoundedNewestFirst(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	now := at(2026, 2, 25, 10, 0)
	for i := 0; i < 25; i++ {
		doc.AddActivity(fmt.Sprintf("entry %d", i), ActivityReset, now)
		if len(doc.RecentActivity) > MaxActivities {
			t.Fatalf("activity log grew to %d", len(doc.RecentActivity))
		}
	}
	if doc.RecentActivity[0].Message != "entry 24" || doc.RecentActivity[9].Message != "entry 15" {
		t.Fatalf("unexpected window: first=%q last=%q", doc.RecentActivity[0].Message, doc.RecentActivity[9].Message)
	}
}

func TestSetGoal(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	now := at(2026, 2, 25, 10, 0)
	for _, bad := range []int{0, 65, -3} {
		if err := doc.SetGoal(bad, now); !errors.Is(err, apperrors.ErrInvalidGoal) {
			t.Fatalf("expected invalid goal for %d, got %v", bad, err)
		}
	}
	if doc.DailyGoal != DefaultGoal || len(doc.RecentActivity) != 0 {
		t.Fatalf("rejected goals must not mutate, got goal=%d activities=%d", doc.DailyGoal, len(doc.RecentActivity))
	}
	if err := doc.SetGoal(32, now); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if doc.DailyGoal != 32 || len(doc.RecentActivity) != 1 {
		t.Fatalf("expected goal 32 with one activity, got %d / %d", doc.DailyGoal, len(doc.RecentActivity))
	}
	if a := doc.RecentActivity[0]; a.Kind != ActivityGoal || a.Message != "Set daily goal to 32 rounds" {
		t.Fatalf("unexpected goal activity %+v", a)
	}
}

func TestResetTodayRounds(t *testing.T) {
	t.Parallel()
	now := at(2026, 2, 25, 10, 0)

	doc := DefaultDocument()
	doc.DailyHistory["2026-02-25"] = 3
	doc.DailyHistory["2026-02-24"] = 7
	doc.TotalRounds = 10
	doc.Streak = 2
	removed := doc.ResetTodayRounds(now)
	if removed != 3 || doc.DailyHistory["2026-02-25"] != 0 || doc.TotalRounds != 7 {
		t.Fatalf("unexpected reset result removed=%d history=%v total=%d", removed, doc.DailyHistory, doc.TotalRounds)
	}
	if doc.DailyHistory["2026-02-24"] != 7 || doc.Streak != 2 {
		t.Fatalf("reset must not touch other days or streak: %v streak=%d", doc.DailyHistory, doc.Streak)
	}
	if doc.RecentActivity[0].Kind != ActivityReset {
		t.Fatalf("expected reset activity, got %+v", doc.RecentActivity[0])
	}

	clamped := DefaultDocument()
	clamped.DailyHistory["2026-02-25"] = 3
	clamped.TotalRounds = 1
	clamped.ResetTodayRounds(now)
	if clamped.TotalRounds != 0 {
		t.Fatalf("expected total clamped at 0, got %d", clamped.TotalRounds)
	}
}

func TestResetCurrentProgressKeepsLifetimeStats(t *testing.T) {
	t.Parallel()
	now := at(2026, 2, 25, 10, 0)
	doc := DefaultDocument()
	for i := 0; i < 5; i++ {
		doc.CompleteRound(now)
	}
	doc.CurrentBeads = 40
	doc.ResetCurrentProgress(now)

	if doc.DailyHistory["2026-02-25"] != 0 || doc.CurrentBeads != 0 {
		t.Fatalf("expected today and beads cleared, got %v beads=%d", doc.DailyHistory, doc.CurrentBeads)
	}
	if doc.TotalRounds != 5 || doc.Streak != 1 {
		t.Fatalf("expected totals and streak preserved, got total=%d streak=%d", doc.TotalRounds, doc.Streak)
	}
	if len(doc.RecentActivity) != 3 {
		t.Fatalf("expected two kept entries plus the reset entry, got %d", len(doc.RecentActivity))
	}
	if doc.RecentActivity[0].Message != "Reset current progress" || doc.RecentActivity[1].Message != "Completed round 5" {
		t.Fatalf("unexpected activity order: %+v", doc.RecentActivity)
	}
}

func TestResetBeadsLeavesRounds(t *testing.T) {
	t.Parallel()
	now := at(2026, 2, 25, 10, 0)
	doc := DefaultDocument()
	doc.CompleteRound(now)
	doc.CurrentBeads = 54
	doc.ResetBeads(now)
	if doc.CurrentBeads != 0 || doc.TotalRounds != 1 || doc.TodayCount(now) != 1 || doc.Streak != 1 {
		t.Fatalf("unexpected state after bead reset: %+v", doc)
	}
	if doc.RecentActivity[0].Message != "Cleared bead count" {
		t.Fatalf("unexpected activity %+v", doc.RecentActivity[0])
	}
}

func TestSetBeadsRange(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	if err := doc.SetBeads(107); err != nil {
		t.Fatalf("107 should be accepted: %v", err)
	}
	for _, bad := range []int{-1, 108} {
		if err := doc.SetBeads(bad); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %d, got %v", bad, err)
		}
	}
	if doc.CurrentBeads != 107 {
		t.Fatalf("rejected values must not mutate, got %d", doc.CurrentBeads)
	}
}

func TestStatsAndProgress(t *testing.T) {
	t.Parallel()
	now := at(2026, 2, 25, 10, 0)
	doc := DefaultDocument()
	doc.DailyGoal = 8
	doc.DailyHistory = map[string]int{"2026-02-25": 2, "2026-02-23": 5, "2026-02-24": 1}
	stats := doc.Stats(now)
	if stats.Today != 2 || stats.Progress != 0.25 {
		t.Fatalf("unexpected today/progress %d %.2f", stats.Today, stats.Progress)
	}
	want := []DayCount{{"2026-02-23", 5}, {"2026-02-24", 1}, {"2026-02-25", 2}}
	if diff := cmp.Diff(want, stats.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	doc.DailyGoal = 0
	if doc.Progress(now) != 0 {
		t.Fatalf("expected zero progress for unset goal")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	t.Parallel()
	doc := DefaultDocument()
	doc.LastChantDate = strPtr("2026-02-25")
	doc.DailyHistory["2026-02-25"] = 1
	doc.AddActivity("x", ActivityReset, at(2026, 2, 25, 1, 0))

	clone := doc.Clone()
	clone.DailyHistory["2026-02-25"] = 9
	*clone.LastChantDate = "2020-01-01"
	clone.RecentActivity[0].Message = "y"

	if doc.DailyHistory["2026-02-25"] != 1 || *doc.LastChantDate != "2026-02-25" || doc.RecentActivity[0].Message != "x" {
		t.Fatalf("clone aliased the original: %+v", doc)
	}
}
