package dto

type ClearScope string

const (
	// ClearProgress drops only the progress document.
	ClearProgress ClearScope = "progress"
	// ClearEverything wipes the whole store except the theme preference.
	ClearEverything ClearScope = "everything"
)

type ActivityOutput struct {
	Message   string
	Kind      string
	Timestamp string
	Date      string
	Time      string
}

type DocumentOutput struct {
	TotalRounds    int
	DailyGoal      int
	Streak         int
	LastChantDate  string
	DailyHistory   map[string]int
	RecentActivity []ActivityOutput
	CurrentBeads   int
	TodayCount     int
	Progress       float64
}

type MutationOutput struct {
	Document  DocumentOutput
	Persisted bool
}

type RoundOutput struct {
	MutationOutput
	TodayCount   int
	GoalAchieved bool
}

type DayCountOutput struct {
	Date   string
	Rounds int
}

type StatsOutput struct {
	Today        int
	Goal         int
	Progress     float64
	Streak       int
	TotalRounds  int
	CurrentBeads int
	History      []DayCountOutput
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Path  string
	Bytes int
}

type ImportInput struct {
	Path string
	Data []byte
}
