package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/anger-log/internal/model"
)

// FieldError identifies one rejected field of a candidate record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a malformed or out-of-range candidate record.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks c without coercing any value. It returns nil or a
// *ValidationError listing every offending field.
func Validate(c model.Candidate) error {
	v := &ValidationError{}

	if _, err := time.Parse(model.DateLayout, c.Date); err != nil {
		v.add("date", "must be a calendar date (YYYY-MM-DD), got %q", c.Date)
	}
	if strings.TrimSpace(c.Situation) == "" {
		v.add("situation", "is required")
	}
	if strings.TrimSpace(c.Thoughts) == "" {
		v.add("thoughts", "is required")
	}
	if len(c.Emotions) == 0 {
		v.add("emotions", "at least one emotion is required")
	}
	for i, e := range c.Emotions {
		if strings.TrimSpace(e.Type) == "" {
			v.add(fmt.Sprintf("emotions[%d].type", i), "is required")
		}
		if !inPercent(e.Intensity) {
			v.add(fmt.Sprintf("emotions[%d].intensity", i), "must be within [0,100], got %d", e.Intensity)
		}
	}
	if !inPercent(c.MoodBefore) {
		v.add("moodBefore", "must be within [0,100], got %d", c.MoodBefore)
	}
	if !inPercent(c.MoodAfter) {
		v.add("moodAfter", "must be within [0,100], got %d", c.MoodAfter)
	}

	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// validateImport applies Validate to each exported record and checks that
// its stored findings name known categories.
func validateImport(records []model.Record) error {
	v := &ValidationError{}
	for i, r := range records {
		prefix := fmt.Sprintf("records[%d].", i)
		var rerr *ValidationError
		if errors.As(Validate(r.Candidate()), &rerr) {
			for _, f := range rerr.Fields {
				v.Fields = append(v.Fields, FieldError{Field: prefix + f.Field, Message: f.Message})
			}
		}
		for j, f := range r.DetectedDistortions {
			if !f.Type.Valid() {
				v.add(fmt.Sprintf("%sdetectedDistortions[%d].type", prefix, j), "unknown distortion type %q", f.Type)
			}
		}
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

func inPercent(n int) bool {
	return n >= 0 && n <= 100
}

// ParseDate parses a calendar date parameter.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		v := &ValidationError{}
		v.add(field, "must be a calendar date (YYYY-MM-DD), got %q", s)
		return time.Time{}, v
	}
	return t, nil
}
