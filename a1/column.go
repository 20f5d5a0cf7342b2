package a1

import (
	"fmt"
	"strings"
)

// LabelToPosition converts a column label (A, B, ..., Z, AA, ...) to its
// 1-based position. Labels are bijective base-26 numerals (A=1, Z=26,
// AA=27) and are case-insensitive.
func LabelToPosition(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%w: column label must be a non-empty string", ErrInvalidArgument)
	}

	position := 0
	for _, ch := range strings.ToUpper(label) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: column label %q contains non-letter characters", ErrInvalidArgument, label)
		}
		position = position*26 + int(ch-'A'+1)
	}
	return position, nil
}

// PositionToLabel converts a 1-based column position to its label.
// It is the exact inverse of LabelToPosition for every position >= 1.
func PositionToLabel(position int) (string, error) {
	if position < 1 {
		return "", fmt.Errorf("%w: column position %d must be >= 1", ErrInvalidArgument, position)
	}

	label := ""
	for position > 0 {
		position-- // bijective numerals have no zero digit
		label = string(rune('A'+position%26)) + label
		position /= 26
	}
	return label, nil
}
