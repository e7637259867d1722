// Package model defines the core journal data types.
package model

import "time"

// DateLayout is the calendar date format used by Record.Date.
const DateLayout = "2006-01-02"

// Emotion is one felt emotion and its intensity on a 0-100 scale.
type Emotion struct {
	Type      string `json:"type"`
	Intensity int    `json:"intensity"`
}

// Finding is one detected cognitive distortion.
type Finding struct {
	Type        DistortionType `json:"type"`
	Description string         `json:"description"`
	Suggestion  string         `json:"suggestion"`
}

// Record is a stored anger journal entry.
type Record struct {
	ID                  int64     `json:"id"`
	Date                string    `json:"date"`
	Situation           string    `json:"situation"`
	Emotions            []Emotion `json:"emotions"`
	Thoughts            string    `json:"thoughts"`
	Evidence            string    `json:"evidence"`
	CounterEvidence     string    `json:"counterEvidence"`
	BalancedThinking    string    `json:"balancedThinking"`
	MoodBefore          int       `json:"moodBefore"`
	MoodAfter           int       `json:"moodAfter"`
	DetectedDistortions []Finding `json:"detectedDistortions"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Candidate is the user-supplied part of a record, before classification
// and id assignment.
type Candidate struct {
	Date             string    `json:"date"`
	Situation        string    `json:"situation"`
	Emotions         []Emotion `json:"emotions"`
	Thoughts         string    `json:"thoughts"`
	Evidence         string    `json:"evidence"`
	CounterEvidence  string    `json:"counterEvidence"`
	BalancedThinking string    `json:"balancedThinking"`
	MoodBefore       int       `json:"moodBefore"`
	MoodAfter        int       `json:"moodAfter"`
}

// Record builds an unsaved record from the candidate with the given findings.
func (c Candidate) Record(findings []Finding) Record {
	return Record{
		Date:                c.Date,
		Situation:           c.Situation,
		Emotions:            append([]Emotion{}, c.Emotions...),
		Thoughts:            c.Thoughts,
		Evidence:            c.Evidence,
		CounterEvidence:     c.CounterEvidence,
		BalancedThinking:    c.BalancedThinking,
		MoodBefore:          c.MoodBefore,
		MoodAfter:           c.MoodAfter,
		DetectedDistortions: append([]Finding{}, findings...),
	}
}

// Candidate returns the user-supplied fields of r.
func (r Record) Candidate() Candidate {
	return Candidate{
		Date:             r.Date,
		Situation:        r.Situation,
		Emotions:         append([]Emotion{}, r.Emotions...),
		Thoughts:         r.Thoughts,
		Evidence:         r.Evidence,
		CounterEvidence:  r.CounterEvidence,
		BalancedThinking: r.BalancedThinking,
		MoodBefore:       r.MoodBefore,
		MoodAfter:        r.MoodAfter,
	}
}

// Clone returns a deep copy of r. Nil slices become empty ones.
func (r Record) Clone() Record {
	r.Emotions = append([]Emotion{}, r.Emotions...)
	r.DetectedDistortions = append([]Finding{}, r.DetectedDistortions...)
	return r
}

// Improvement is the mood drop from before to after reflection.
func (r Record) Improvement() int {
	return r.MoodBefore - r.MoodAfter
}
