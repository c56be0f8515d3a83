package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	apperrors "japa/internal/platform/errors"
)

// fieldRule decodes one top-level field into doc. strict controls whether a
// bad nested entry fails the field or is skipped.
type fieldRule struct {
	name  string
	apply func(doc *Document, raw json.RawMessage, strict bool) error
}

var documentSchema = []fieldRule{
	{name: "totalRounds", apply: func(doc *Document, raw json.RawMessage, _ bool) error {
		n, err := decodeInt(raw, 0, -1)
		if err != nil {
			return err
		}
		doc.TotalRounds = n
		return nil
	}},
	{name: "dailyGoal", apply: func(doc *Document, raw json.RawMessage, _ bool) error {
		n, err := decodeInt(raw, MinGoal, MaxGoal)
		if err != nil {
			return err
		}
		doc.DailyGoal = n
		return nil
	}},
	{name: "streak", apply: func(doc *Document, raw json.RawMessage, _ bool) error {
		n, err := decodeInt(raw, 0, -1)
		if err != nil {
			return err
		}
		doc.Streak = n
		return nil
	}},
	{name: "lastChantDate", apply: func(doc *Document, raw json.RawMessage, _ bool) error {
		if isNull(raw) {
			doc.LastChantDate = nil
			return nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return fmt.Errorf("date %q: %w", s, err)
		}
		doc.LastChantDate = &s
		return nil
	}},
	{name: "dailyHistory", apply: func(doc *Document, raw json.RawMessage, strict bool) error {
		if isNull(raw) {
			return fmt.Errorf("history is null")
		}
		entries := map[string]json.RawMessage{}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return err
		}
		history := make(map[string]int, len(entries))
		for day, v := range entries {
			if _, err := time.Parse(DateLayout, day); err != nil {
				if strict {
					return fmt.Errorf("history key %q: %w", day, err)
				}
				continue
			}
			n, err := decodeInt(v, 0, -1)
			if err != nil {
				if strict {
					return fmt.Errorf("history %s: %w", day, err)
				}
				continue
			}
			history[day] = n
		}
		doc.DailyHistory = history
		return nil
	}},
	{name: "recentActivity", apply: func(doc *Document, raw json.RawMessage, strict bool) error {
		if isNull(raw) {
			return fmt.Errorf("activity is null")
		}
		items := []json.RawMessage{}
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		activities := make([]Activity, 0, len(items))
		for i, item := range items {
			a := Activity{}
			err := json.Unmarshal(item, &a)
			if err == nil && a.Message == "" {
				err = fmt.Errorf("message is required")
			}
			if err == nil {
				err = a.Kind.Validate()
			}
			if err != nil {
				if strict {
					return fmt.Errorf("activity %d: %w", i, err)
				}
				continue
			}
			activities = append(activities, a)
		}
		if len(activities) > MaxActivities {
			activities = activities[:MaxActivities]
		}
		doc.RecentActivity = activities
		return nil
	}},
	{name: "currentBeads", apply: func(doc *Document, raw json.RawMessage, _ bool) error {
		n, err := decodeInt(raw, 0, BeadsPerRound-1)
		if err != nil {
			return err
		}
		doc.CurrentBeads = n
		return nil
	}},
}

// DecodeDocument never fails: anything that is not a JSON object yields the
// defaults, and each field that is missing or invalid keeps its default.
// The names of fields that fell back are returned for diagnostics.
func DecodeDocument(data []byte) (Document, []string) {
	doc := DefaultDocument()
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return doc, []string{"*"}
	}
	var rejected []string
	for _, rule := range documentSchema {
		raw, ok := fields[rule.name]
		if !ok {
			continue
		}
		candidate := doc.Clone()
		if err := rule.apply(&candidate, raw, false); err != nil {
			rejected = append(rejected, rule.name)
			continue
		}
		doc = candidate
	}
	return doc, rejected
}

// MergeImport shallow-merges the fields of data over base. Every present
// field must be valid; on any violation base is returned untouched together
// with ErrInvalidFormat.
func MergeImport(base Document, data []byte) (Document, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return base, fmt.Errorf("%w: %v", apperrors.ErrInvalidFormat, err)
	}
	if fields == nil {
		return base, fmt.Errorf("%w: expected a JSON object", apperrors.ErrInvalidFormat)
	}
	merged := base.Clone()
	for _, rule := range documentSchema {
		raw, ok := fields[rule.name]
		if !ok {
			continue
		}
		if err := rule.apply(&merged, raw, true); err != nil {
			return base, fmt.Errorf("%w: field %s: %v", apperrors.ErrInvalidFormat, rule.name, err)
		}
	}
	return merged, nil
}

// EncodeDocument is the compact storage form. encoding/json sorts map keys,
// so equal documents always encode to equal bytes.
func EncodeDocument(doc Document) ([]byte, error) {
	doc.ensureMaps()
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return payload, nil
}

// EncodeBackup is the pretty-printed export form.
func EncodeBackup(doc Document) ([]byte, error) {
	doc.ensureMaps()
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return payload, nil
}

func BackupFileName(now time.Time) string {
	return fmt.Sprintf("japa-backup-%s.json", DateKey(now))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeInt accepts a JSON integer in [lo, hi]; hi < 0 means unbounded.
func decodeInt(raw json.RawMessage, lo, hi int) (int, error) {
	if isNull(raw) {
		return 0, fmt.Errorf("value is null")
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if n < lo || (hi >= 0 && n > hi) {
		return 0, fmt.Errorf("value %d out of range", n)
	}
	return n, nil
}
