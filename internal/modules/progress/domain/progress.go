package domain

import (
	"fmt"
	"sort"
	"time"

	apperrors "japa/internal/platform/errors"
)

const (
	SchemaVersion = 1

	BeadsPerRound = 108
	MinGoal       = 1
	MaxGoal       = 64
	DefaultGoal   = 16
	MaxActivities = 10

	DateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	dateLabelLayout = "1/2/2006"
	timeLabelLayout = "03:04 PM"
)

type ActivityKind string

const (
	ActivityRound ActivityKind = "round"
	ActivityGoal  ActivityKind = "goal"
	ActivityReset ActivityKind = "reset"
)

func (k ActivityKind) Validate() error {
	switch k {
	case ActivityRound, ActivityGoal, ActivityReset:
		return nil
	default:
		return fmt.Errorf("unsupported activity type %q", string(k))
	}
}

// Activity is one line of the recent-activity log. Entries are never edited.
type Activity struct {
	Message   string       `json:"message"`
	Kind      ActivityKind `json:"type"`
	Timestamp string       `json:"timestamp"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
}

func NewActivity(message string, kind ActivityKind, now time.Time) Activity {
	return Activity{
		Message:   message,
		Kind:      kind,
		Timestamp: now.UTC().Format(timestampLayout),
		Date:      now.Format(dateLabelLayout),
		Time:      now.Format(timeLabelLayout),
	}
}

// Document is the persisted practice record. Field names are the storage
// contract and must not change.
type Document struct {
	TotalRounds    int            `json:"totalRounds"`
	DailyGoal      int            `json:"dailyGoal"`
	Streak         int            `json:"streak"`
	LastChantDate  *string        `json:"lastChantDate"`
	DailyHistory   map[string]int `json:"dailyHistory"`
	RecentActivity []Activity     `json:"recentActivity"`
	CurrentBeads   int            `json:"currentBeads"`
}

func DefaultDocument() Document {
	return Document{
		DailyGoal:      DefaultGoal,
		DailyHistory:   map[string]int{},
		RecentActivity: []Activity{},
	}
}

// Clone returns a deep copy so callers never alias the owner's mirror.
func (d Document) Clone() Document {
	out := d
	if d.LastChantDate != nil {
		v := *d.LastChantDate
		out.LastChantDate = &v
	}
	out.DailyHistory = make(map[string]int, len(d.DailyHistory))
	for k, v := range d.DailyHistory {
		out.DailyHistory[k] = v
	}
	out.RecentActivity = append([]Activity{}, d.RecentActivity...)
	return out
}

// DateKey is the local calendar day of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// previousDay steps back one calendar day at noon so DST shifts cannot land
// on the wrong date.
func previousDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, t.Location())
}

func (d Document) TodayCount(now time.Time) int {
	return d.DailyHistory[DateKey(now)]
}

// Progress is today's rounds over the goal; 0 when the goal is unset.
func (d Document) Progress(now time.Time) float64 {
	if d.DailyGoal <= 0 {
		return 0
	}
	return float64(d.TodayCount(now)) / float64(d.DailyGoal)
}

func (d *Document) ensureMaps() {
	if d.DailyHistory == nil {
		d.DailyHistory = map[string]int{}
	}
	if d.RecentActivity == nil {
		d.RecentActivity = []Activity{}
	}
}

// AddActivity prepends an entry and drops the oldest beyond MaxActivities.
func (d *Document) AddActivity(message string, kind ActivityKind, now time.Time) {
	d.ensureMaps()
	entries := make([]Activity, 0, len(d.RecentActivity)+1)
	entries = append(entries, NewActivity(message, kind, now))
	entries = append(entries, d.RecentActivity...)
	if len(entries) > MaxActivities {
		entries = entries[:MaxActivities]
	}
	d.RecentActivity = entries
}

type RoundOutcome struct {
	TodayCount   int
	GoalAchieved bool
}

// CompleteRound books one finished round for the day of now.
func (d *Document) CompleteRound(now time.Time) RoundOutcome {
	d.ensureMaps()
	today := DateKey(now)
	d.DailyHistory[today]++
	d.TotalRounds++
	d.advanceStreak(now)
	d.CurrentBeads = 0

	count := d.DailyHistory[today]
	d.AddActivity(fmt.Sprintf("Completed round %d", count), ActivityRound, now)
	return RoundOutcome{TodayCount: count, GoalAchieved: count >= d.DailyGoal}
}

func (d *Document) advanceStreak(now time.Time) {
	today := DateKey(now)
	yesterday := DateKey(previousDay(now))
	switch {
	case d.LastChantDate != nil && *d.LastChantDate == today:
		return
	case d.LastChantDate != nil && *d.LastChantDate == yesterday:
		d.Streak++
	default:
		d.Streak = 1
	}
	d.LastChantDate = &today
}

func (d *Document) SetGoal(goal int, now time.Time) error {
	if goal < MinGoal || goal > MaxGoal {
		return apperrors.ErrInvalidGoal
	}
	d.DailyGoal = goal
	d.AddActivity(fmt.Sprintf("Set daily goal to %d rounds", goal), ActivityGoal, now)
	return nil
}

func (d *Document) SetBeads(beads int) error {
	if beads < 0 || beads >= BeadsPerRound {
		return fmt.Errorf("%w: bead count %d outside 0..%d", apperrors.ErrInvalidInput, beads, BeadsPerRound-1)
	}
	d.CurrentBeads = beads
	return nil
}

func (d *Document) ResetBeads(now time.Time) {
	d.CurrentBeads = 0
	d.AddActivity("Cleared bead count", ActivityReset, now)
}

// ResetTodayRounds zeroes today's rounds and takes the same amount off the
// lifetime total. The streak is left alone.
func (d *Document) ResetTodayRounds(now time.Time) int {
	d.ensureMaps()
	today := DateKey(now)
	removed := d.DailyHistory[today]
	d.DailyHistory[today] = 0
	d.TotalRounds -= removed
	if d.TotalRounds < 0 {
		d.TotalRounds = 0
	}
	d.AddActivity("Reset completed rounds", ActivityReset, now)
	return removed
}

// ResetCurrentProgress gives a fresh start for today while keeping lifetime
// totals and the streak.
func (d *Document) ResetCurrentProgress(now time.Time) {
	d.ensureMaps()
	d.DailyHistory[DateKey(now)] = 0
	if len(d.RecentActivity) > 2 {
		d.RecentActivity = append([]Activity{}, d.RecentActivity[:2]...)
	}
	d.CurrentBeads = 0
	d.AddActivity("Reset current progress", ActivityReset, now)
}

type DayCount struct {
	Date   string
	Rounds int
}

type Stats struct {
	Today        int
	Goal         int
	Progress     float64
	Streak       int
	TotalRounds  int
	CurrentBeads int
	History      []DayCount
}

func (d Document) Stats(now time.Time) Stats {
	history := make([]DayCount, 0, len(d.DailyHistory))
	for day, rounds := range d.DailyHistory {
		history = append(history, DayCount{Date: day, Rounds: rounds})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return Stats{
		Today:        d.TodayCount(now),
		Goal:         d.DailyGoal,
		Progress:     d.Progress(now),
		Streak:       d.Streak,
		TotalRounds:  d.TotalRounds,
		CurrentBeads: d.CurrentBeads,
		History:      history,
	}
}
