package domain

import (
	"fmt"
	"strconv"
)

// Seat labels follow the coach layout: rows of six seats lettered A-F, so
// seat index 0 is "1A" and index 8 is "2C".
const SeatsPerRow = 6

// SeatLabel returns the label of the zero-based seat index.
func SeatLabel(index int) string {
	row := index/SeatsPerRow + 1
	letter := rune('A' + index%SeatsPerRow)
	return fmt.Sprintf("%d%c", row, letter)
}

// SeatIndex parses a label back to its zero-based index.
func SeatIndex(label string) (int, error) {
	if len(label) < 2 {
		return 0, fmt.Errorf("malformed seat label %q", label)
	}
	letter := label[len(label)-1]
	if letter < 'A' || letter >= 'A'+SeatsPerRow {
		return 0, fmt.Errorf("malformed seat label %q", label)
	}
	row, err := strconv.Atoi(label[:len(label)-1])
	if err != nil || row < 1 {
		return 0, fmt.Errorf("malformed seat label %q", label)
	}
	return (row-1)*SeatsPerRow + int(letter-'A'), nil
}

// IsValidSeatLabel reports whether label names a real seat on a train with
// totalSeats seats.
func IsValidSeatLabel(label string, totalSeats int) bool {
	index, err := SeatIndex(label)
	return err == nil && index < totalSeats
}

// AllSeatLabels enumerates the full label space for a train.
func AllSeatLabels(totalSeats int) []string {
	labels := make([]string, totalSeats)
	for i := range labels {
		labels[i] = SeatLabel(i)
	}
	return labels
}
