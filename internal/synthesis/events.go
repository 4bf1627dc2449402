package synthesis

import (
	"market-octopus/internal/answer"
	"market-octopus/internal/evidence"
	"market-octopus/internal/intent"
)

// Stage identifies one step of the answer pipeline in the event stream.
type Stage string

const (
	StageIntentClassified   Stage = "intent-classified"
	StageNewsRetrieved      Stage = "news-retrieved"
	StageNewsAnswerChunk    Stage = "news-answer-chunk"
	StageMainIdeasReady     Stage = "main-ideas-ready"
	StageReportSelected     Stage = "report-selected"
	StageAnalyticsChunk     Stage = "analytics-chunk"
	StageConclusionChunk    Stage = "conclusion-chunk"
	StageNextQuestionsReady Stage = "next-questions-ready"
	StageDone               Stage = "done"
)

// Event is one staged pipeline notification. Data carries the stage payload.
type Event struct {
	Stage Stage `json:"stage"`
	Data  any   `json:"data,omitempty"`
}

// Sink receives pipeline events in order. A sink error aborts the pipeline:
// the consumer is gone.
type Sink func(event Event) error

// IntentPayload announces the classified intent.
type IntentPayload struct {
	Intent intent.Intent `json:"intent"`
	Label  string        `json:"label"`
}

// NewsPayload announces the news evidence of the round.
type NewsPayload struct {
	Matches []evidence.NewsMatch `json:"matches"`
}

// ChunkPayload carries one streamed text fragment. IdeaIndex is set only for
// analytics chunks.
type ChunkPayload struct {
	Text      string `json:"text"`
	IdeaIndex int    `json:"idea_index,omitempty"`
}

// MainIdeasPayload announces the deep-dive agenda.
type MainIdeasPayload struct {
	Ideas []string `json:"ideas"`
}

// ReportPayload announces the report chosen for one main idea. Report is nil
// when no unvisited report qualified.
type ReportPayload struct {
	IdeaIndex int                   `json:"idea_index"`
	Report    *evidence.ReportMatch `json:"report,omitempty"`
}

// NextQuestionsPayload announces the suggested follow-up questions.
type NextQuestionsPayload struct {
	Questions []string `json:"questions"`
}

// DonePayload closes the stream with the finalized record.
type DonePayload struct {
	Record *answer.Record `json:"record"`
}
