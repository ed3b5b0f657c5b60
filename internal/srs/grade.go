package srs

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidGrade is returned when a grade is not one of Again, Hard or Good.
var ErrInvalidGrade = errors.New("srs: invalid grade")

// Grade is the reviewer's self-assessed recall quality for one review.
type Grade int

const (
	Again Grade = iota + 1 // Failed to recall.
	Hard                   // Recalled with difficulty.
	Good                   // Recalled easily.
)

var (
	gradeNames  = [...]string{Again: "again", Hard: "hard", Good: "good"}
	gradeByName = map[string]Grade{
		"again": Again,
		"hard":  Hard,
		"good":  Good,
	}
)

var (
	_ fmt.Stringer             = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
	_ json.Unmarshaler         = (*Grade)(nil)
)

// ParseGrade converts "again", "hard" or "good" (any case) into a Grade.
func ParseGrade(s string) (Grade, error) {
	g, ok := gradeByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

// IsValid reports whether g is one of the three known grades.
func (g Grade) IsValid() bool {
	return g >= Again && g <= Good
}

// IsSuccess reports whether g counts as a successful recall.
func (g Grade) IsSuccess() bool {
	return g == Hard || g == Good
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// UnmarshalJSON accepts a grade name or its number (1 again, 2 hard, 3 good).
func (g *Grade) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		return g.UnmarshalText([]byte(name))
	}
	n, err := strconv.Atoi(string(data))
	if err != nil || !Grade(n).IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidGrade, data)
	}
	*g = Grade(n)
	return nil
}
