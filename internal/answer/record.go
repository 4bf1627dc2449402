// Package answer defines the persistent record of one answered question: the
// evidence each round used and the text each round produced. Records are
// stored as versioned JSON; loading a record of an unknown version fails
// loudly instead of guessing at its shape.
package answer

import (
	"encoding/json"
	"fmt"
	"time"

	"market-octopus/internal/evidence"
	"market-octopus/internal/intent"
)

// SchemaVersion is the current record schema. Bump on any incompatible field
// change.
const SchemaVersion = 1

// IdeaAnswer is one deep-dive round: a main idea, the report chosen for it,
// and the analysis written from that report. Ideas for which no unvisited
// report cleared the threshold get no deep dive and no entry here.
type IdeaAnswer struct {
	MainIdea       string                `json:"main_idea"`
	SelectedReport *evidence.ReportMatch `json:"selected_report,omitempty"`
	Analytics      string                `json:"analytics"`
}

// Record is the full audit trail of one answered question.
type Record struct {
	Version   int            `json:"version"`
	Question  string         `json:"question"`
	Scope     evidence.Scope `json:"scope"`
	Intent    intent.Intent  `json:"intent"`
	CreatedAt time.Time      `json:"created_at"`

	News       []evidence.NewsMatch `json:"news,omitempty"`
	NewsAnswer string               `json:"news_answer,omitempty"`

	IdeaAnswers   []IdeaAnswer `json:"idea_answers,omitempty"`
	Conclusion    string       `json:"conclusion,omitempty"`
	NextQuestions []string     `json:"next_questions,omitempty"`
}

// NewRecord starts a record for a question round.
func NewRecord(question string, scope evidence.Scope, it intent.Intent, now time.Time) *Record {
	return &Record{
		Version:   SchemaVersion,
		Question:  question,
		Scope:     scope,
		Intent:    it,
		CreatedAt: now,
	}
}

// Marshal serializes the record with its schema version.
func (r *Record) Marshal() ([]byte, error) {
	if r.Version == 0 {
		r.Version = SchemaVersion
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer record: %w", err)
	}
	return data, nil
}

// Unmarshal parses a stored record, rejecting unknown schema versions.
func Unmarshal(data []byte) (*Record, error) {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse answer record: %w", err)
	}
	if header.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported answer record version %d (supported: %d)", header.Version, SchemaVersion)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse answer record: %w", err)
	}
	return &record, nil
}
