package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "japa/internal/platform/errors"
)

// GoalPresets are the stops of the goal slider.
var GoalPresets = []int{1, 4, 8, 16, 32, 48, 64}

// ParseGoal reads the leading integer of raw: surrounding blanks and a sign
// are allowed and trailing garbage is ignored, so "12 rounds" is 12.
func ParseGoal(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidGoal, raw)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidGoal, raw)
	}
	if n < MinGoal || n > MaxGoal {
		return 0, fmt.Errorf("%w: got %d", apperrors.ErrInvalidGoal, n)
	}
	return n, nil
}

func GoalPreset(index int) (int, error) {
	if index < 0 || index >= len(GoalPresets) {
		return 0, fmt.Errorf("%w: preset %d outside 0..%d", apperrors.ErrInvalidInput, index, len(GoalPresets)-1)
	}
	return GoalPresets[index], nil
}
