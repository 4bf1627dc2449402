// Package synthesis runs the multi-round answer pipeline: classify, retrieve
// news, answer from news, extract main ideas, deep-dive each idea on analyst
// reports, conclude, suggest follow-ups. Every stage degrades instead of
// aborting; the pipeline always finishes with a record, empty where evidence
// or generation was unavailable.
package synthesis

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_synthesis.go -package=mocks market-octopus/internal/synthesis Classifier,QueryExtractor,NewsSource,ReportSource,ChatClient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"market-octopus/internal/answer"
	"market-octopus/internal/contextutil"
	"market-octopus/internal/evidence"
	"market-octopus/internal/intent"
	"market-octopus/internal/llm"
	"market-octopus/internal/retriever"
	"market-octopus/internal/retry"
	"market-octopus/internal/translate"
)

const jsonAttempts = 3

// Classifier assigns a question to the intent taxonomy.
type Classifier interface {
	Classify(ctx context.Context, question string) intent.Intent
}

// QueryExtractor pulls news search queries out of a question.
type QueryExtractor interface {
	ExtractQueries(ctx context.Context, question string) []string
}

// NewsSource is the news branch of the retriever.
type NewsSource interface {
	Retrieve(ctx context.Context, queries []string, scope evidence.Scope) ([]evidence.NewsMatch, error)
}

// ReportSource is the report branch of the retriever.
type ReportSource interface {
	Retrieve(ctx context.Context, q retriever.ReportQuery) ([]evidence.ReportMatch, error)
}

// ChatClient is the LLM surface the orchestrator consumes: streaming for
// narrative stages, JSON mode for structured ones.
type ChatClient interface {
	ChatJSON(ctx context.Context, messages []llm.Message) (string, error)
	StreamChat(ctx context.Context, messages []llm.Message, callback func(chunk string) error) error
}

// Orchestrator drives one question through the pipeline.
type Orchestrator struct {
	classifier Classifier
	extractor  QueryExtractor
	news       NewsSource
	reports    ReportSource
	chat       ChatClient
	translator translate.Translator
	now        func() time.Time
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(classifier Classifier, extractor QueryExtractor, news NewsSource, reports ReportSource, chat ChatClient, translator translate.Translator) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		extractor:  extractor,
		news:       news,
		reports:    reports,
		chat:       chat,
		translator: translator,
		now:        time.Now,
	}
}

// Answer runs the full pipeline for one question, emitting staged events to
// sink as the rounds complete. The returned record is always non-nil on a nil
// error; a sink error aborts the run.
func (o *Orchestrator) Answer(ctx context.Context, question string, scope evidence.Scope, sink Sink) (*answer.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)
	now := o.now()

	it := o.classifier.Classify(ctx, question)
	record := answer.NewRecord(question, scope, it, now)
	if err := sink(Event{Stage: StageIntentClassified, Data: IntentPayload{Intent: it, Label: it.Primary.Label()}}); err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}

	record.News = o.retrieveNews(ctx, question, scope)
	if err := sink(Event{Stage: StageNewsRetrieved, Data: NewsPayload{Matches: record.News}}); err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}

	newsAnswer, err := o.streamStage(ctx, sink, StageNewsAnswerChunk, 0,
		newsAnswerPrompt(now, question, record.News))
	if err != nil {
		return nil, err
	}
	record.NewsAnswer = newsAnswer

	ideas := o.extractMainIdeas(ctx, question, newsAnswer)
	if err := sink(Event{Stage: StageMainIdeasReady, Data: MainIdeasPayload{Ideas: ideas}}); err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}

	// One visited set per run: a report cited for one idea is never cited
	// again for a later idea.
	visited := make(map[string]bool)
	var analytics []string
	for i, idea := range ideas {
		report := o.selectReport(ctx, question, idea, it, scope, visited)
		if err := sink(Event{Stage: StageReportSelected, Data: ReportPayload{IdeaIndex: i, Report: report}}); err != nil {
			return nil, fmt.Errorf("sink: %w", err)
		}
		// No unvisited report for the idea means no deep dive for it.
		if report == nil {
			continue
		}
		visited[report.IdentityKey()] = true

		text, err := o.streamStage(ctx, sink, StageAnalyticsChunk, i,
			analyticsPrompt(now, question, idea, report))
		if err != nil {
			return nil, err
		}
		record.IdeaAnswers = append(record.IdeaAnswers, answer.IdeaAnswer{
			MainIdea:       idea,
			SelectedReport: report,
			Analytics:      text,
		})
		analytics = append(analytics, text)
	}

	conclusion, err := o.streamStage(ctx, sink, StageConclusionChunk, 0,
		conclusionPrompt(now, question, newsAnswer, analytics))
	if err != nil {
		return nil, err
	}
	record.Conclusion = conclusion

	record.NextQuestions = o.extractNextQuestions(ctx, question, conclusion)
	if err := sink(Event{Stage: StageNextQuestionsReady, Data: NextQuestionsPayload{Questions: record.NextQuestions}}); err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}

	if err := sink(Event{Stage: StageDone, Data: DonePayload{Record: record}}); err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}
	logger.InfoContext(ctx, "answer pipeline completed",
		"intent", string(it.Primary), "news", len(record.News), "ideas", len(ideas))
	return record, nil
}

// retrieveNews runs query extraction and the news branch. No queries or a
// failed retrieval both yield an empty round.
func (o *Orchestrator) retrieveNews(ctx context.Context, question string, scope evidence.Scope) []evidence.NewsMatch {
	logger := contextutil.LoggerFromContext(ctx)

	queries := o.extractor.ExtractQueries(ctx, question)
	if len(queries) == 0 {
		return nil
	}
	matches, err := o.news.Retrieve(ctx, queries, scope)
	if err != nil {
		logger.WarnContext(ctx, "news retrieval failed", "error", err)
		return nil
	}
	return matches
}

// selectReport retrieves report candidates for one main idea, ordered by
// recency, and returns the best unvisited one. Nil when every candidate is
// visited or the round came back empty.
func (o *Orchestrator) selectReport(ctx context.Context, question, idea string, it intent.Intent, scope evidence.Scope, visited map[string]bool) *evidence.ReportMatch {
	logger := contextutil.LoggerFromContext(ctx)

	query := fmt.Sprintf("question: %s\nmain idea: %s", question, idea)
	if scope.IncludesForeign() {
		if translated, err := o.translator.Translate(ctx, []string{query}, "en"); err != nil {
			logger.WarnContext(ctx, "query translation failed, using original", "error", err)
		} else if len(translated) == 1 && translated[0] != "" {
			query = translated[0]
		}
	}

	matches, err := o.reports.Retrieve(ctx, retriever.ReportQuery{
		Question:    query,
		Intent:      it,
		Scope:       scope,
		OrderKey:    evidence.OrderByPublishedAt,
		ExcludeKeys: visited,
	})
	if err != nil {
		logger.WarnContext(ctx, "report retrieval failed", "idea", idea, "error", err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// streamStage runs one narrative LLM stage, forwarding chunks to the sink and
// returning the accumulated text. Generation failures degrade to empty text;
// sink failures abort.
func (o *Orchestrator) streamStage(ctx context.Context, sink Sink, stage Stage, ideaIndex int, prompt string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var b strings.Builder
	var sinkErr error
	err := o.chat.StreamChat(ctx, []llm.Message{llm.System(prompt)}, func(chunk string) error {
		b.WriteString(chunk)
		if err := sink(Event{Stage: stage, Data: ChunkPayload{Text: chunk, IdeaIndex: ideaIndex}}); err != nil {
			sinkErr = err
			return err
		}
		return nil
	})
	if sinkErr != nil {
		return "", fmt.Errorf("sink: %w", sinkErr)
	}
	if err != nil {
		logger.WarnContext(ctx, "generation stage failed", "stage", string(stage), "error", err)
	}
	return b.String(), nil
}

// extractMainIdeas asks for the deep-dive agenda in JSON mode. Exhaustion
// degrades to no ideas, which skips the deep-dive rounds.
func (o *Orchestrator) extractMainIdeas(ctx context.Context, question, newsAnswer string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := mainIdeasPrompt(o.now(), question, newsAnswer)
	ideas, err := retry.Do(ctx, jsonAttempts, func(ctx context.Context) ([]string, error) {
		raw, err := o.chat.ChatJSON(ctx, []llm.Message{llm.System(prompt)})
		if err != nil {
			return nil, err
		}
		return parseStringList(raw, "ideas")
	})
	if err != nil {
		logger.WarnContext(ctx, "main idea extraction failed", "error", err)
		return nil
	}
	return ideas
}

func (o *Orchestrator) extractNextQuestions(ctx context.Context, question, conclusion string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := nextQuestionsPrompt(o.now(), question, conclusion)
	questions, err := retry.Do(ctx, jsonAttempts, func(ctx context.Context) ([]string, error) {
		raw, err := o.chat.ChatJSON(ctx, []llm.Message{llm.System(prompt)})
		if err != nil {
			return nil, err
		}
		return parseStringList(raw, "questions")
	})
	if err != nil {
		logger.WarnContext(ctx, "next question extraction failed", "error", err)
		return nil
	}
	return questions
}

func parseStringList(raw, key string) ([]string, error) {
	var parsed map[string][]string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, retry.Malformed(fmt.Errorf("failed to parse %s: %w", key, err))
	}
	values, ok := parsed[key]
	if !ok {
		return nil, retry.Malformed(fmt.Errorf("response missing %q field", key))
	}
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
