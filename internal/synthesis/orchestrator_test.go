package synthesis

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"market-octopus/internal/evidence"
	"market-octopus/internal/intent"
	"market-octopus/internal/llm"
	"market-octopus/internal/retriever"
	"market-octopus/internal/synthesis/mocks"
	"market-octopus/internal/translate"
)

type pipelineMocks struct {
	classifier *mocks.MockClassifier
	extractor  *mocks.MockQueryExtractor
	news       *mocks.MockNewsSource
	reports    *mocks.MockReportSource
	chat       *mocks.MockChatClient
}

func newPipeline(t *testing.T) (*Orchestrator, pipelineMocks) {
	ctrl := gomock.NewController(t)
	m := pipelineMocks{
		classifier: mocks.NewMockClassifier(ctrl),
		extractor:  mocks.NewMockQueryExtractor(ctrl),
		news:       mocks.NewMockNewsSource(ctrl),
		reports:    mocks.NewMockReportSource(ctrl),
		chat:       mocks.NewMockChatClient(ctrl),
	}
	o := NewOrchestrator(m.classifier, m.extractor, m.news, m.reports, m.chat, translate.Noop{})
	o.now = func() time.Time { return time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC) }
	return o, m
}

func streamText(text string) func(ctx context.Context, messages []llm.Message, callback func(string) error) error {
	return func(ctx context.Context, messages []llm.Message, callback func(string) error) error {
		return callback(text)
	}
}

func collectEvents(events *[]Event) Sink {
	return func(event Event) error {
		*events = append(*events, event)
		return nil
	}
}

func TestAnswer_FullPipeline(t *testing.T) {
	o, m := newPipeline(t)

	m.classifier.EXPECT().Classify(gomock.Any(), "금리 전망은?").
		Return(intent.Intent{Primary: intent.Economics})
	m.extractor.EXPECT().ExtractQueries(gomock.Any(), "금리 전망은?").
		Return([]string{"금리 전망"})
	m.news.EXPECT().Retrieve(gomock.Any(), []string{"금리 전망"}, evidence.ScopeDomestic).
		Return([]evidence.NewsMatch{{Title: "기사", Publisher: "한국경제", Similarity: 0.7}}, nil)

	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("뉴스 답변"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"ideas": ["금리 인하 시점", "환율 영향"]}`, nil)

	reports := []evidence.ReportMatch{
		{ID: "rpt1_0", Score: 0.9, Title: "금리 리포트"},
		{ID: "rpt2_0", Score: 0.8, Title: "환율 리포트"},
	}
	// First idea gets rpt1; the second round must exclude it.
	m.reports.EXPECT().Retrieve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q retriever.ReportQuery) ([]evidence.ReportMatch, error) {
			if len(q.ExcludeKeys) != 0 {
				t.Errorf("first round ExcludeKeys = %v, want empty", q.ExcludeKeys)
			}
			if q.OrderKey != evidence.OrderByPublishedAt {
				t.Errorf("OrderKey = %q, want published_at for deep-dive rounds", q.OrderKey)
			}
			return reports, nil
		})
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("분석 1"))
	m.reports.EXPECT().Retrieve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q retriever.ReportQuery) ([]evidence.ReportMatch, error) {
			if !q.ExcludeKeys["rpt1"] {
				t.Errorf("second round ExcludeKeys = %v, want rpt1 excluded", q.ExcludeKeys)
			}
			return reports[1:], nil
		})
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("분석 2"))

	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("결론"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"questions": ["다음 질문?"]}`, nil)

	var events []Event
	record, err := o.Answer(context.Background(), "금리 전망은?", evidence.ScopeDomestic, collectEvents(&events))
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}

	if record.NewsAnswer != "뉴스 답변" || record.Conclusion != "결론" {
		t.Errorf("record = %+v, narrative stages not captured", record)
	}
	if len(record.IdeaAnswers) != 2 {
		t.Fatalf("IdeaAnswers length = %d, want 2", len(record.IdeaAnswers))
	}
	if record.IdeaAnswers[0].SelectedReport.ID != "rpt1_0" {
		t.Errorf("idea 0 report = %q, want rpt1_0", record.IdeaAnswers[0].SelectedReport.ID)
	}
	if record.IdeaAnswers[1].SelectedReport.ID != "rpt2_0" {
		t.Errorf("idea 1 report = %q, want rpt2_0 after visited-set exclusion", record.IdeaAnswers[1].SelectedReport.ID)
	}
	if len(record.NextQuestions) != 1 {
		t.Errorf("NextQuestions = %v, want one question", record.NextQuestions)
	}

	wantStages := []Stage{
		StageIntentClassified, StageNewsRetrieved, StageNewsAnswerChunk,
		StageMainIdeasReady,
		StageReportSelected, StageAnalyticsChunk,
		StageReportSelected, StageAnalyticsChunk,
		StageConclusionChunk, StageNextQuestionsReady, StageDone,
	}
	if len(events) != len(wantStages) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(wantStages), events)
	}
	for i, want := range wantStages {
		if events[i].Stage != want {
			t.Errorf("events[%d].Stage = %q, want %q", i, events[i].Stage, want)
		}
	}
}

func TestAnswer_ZeroEvidenceStillProducesRecord(t *testing.T) {
	o, m := newPipeline(t)

	m.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(intent.Default())
	m.extractor.EXPECT().ExtractQueries(gomock.Any(), gomock.Any()).Return(nil)
	// No queries means the news source is never asked.

	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("일반 지식 답변"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"ideas": []}`, nil)
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("결론"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"questions": []}`, nil)

	var events []Event
	record, err := o.Answer(context.Background(), "질문", evidence.ScopeBoth, collectEvents(&events))
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}
	if record == nil {
		t.Fatal("Answer() returned nil record for a zero-evidence round")
	}
	if len(record.News) != 0 || len(record.IdeaAnswers) != 0 {
		t.Errorf("record = %+v, want empty evidence sections", record)
	}
	if record.NewsAnswer == "" {
		t.Error("NewsAnswer should still be generated without evidence")
	}
	if events[len(events)-1].Stage != StageDone {
		t.Errorf("last event = %q, want done", events[len(events)-1].Stage)
	}
}

func TestAnswer_ReportFailureSkipsDeepDive(t *testing.T) {
	o, m := newPipeline(t)

	m.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(intent.Default())
	m.extractor.EXPECT().ExtractQueries(gomock.Any(), gomock.Any()).Return(nil)
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("답변"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"ideas": ["아이디어"]}`, nil)
	m.reports.EXPECT().Retrieve(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("index unavailable"))
	// No analytics stream for the report-less idea: only the conclusion runs.
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("결론"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"questions": []}`, nil)

	var events []Event
	record, err := o.Answer(context.Background(), "질문", evidence.ScopeDomestic, collectEvents(&events))
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}
	if len(record.IdeaAnswers) != 0 {
		t.Fatalf("IdeaAnswers = %+v, want none when no report was selected", record.IdeaAnswers)
	}
	for _, e := range events {
		if e.Stage == StageAnalyticsChunk {
			t.Error("analytics chunk emitted for an idea with no report")
		}
	}
}

func TestAnswer_AllVisitedIdeaGetsNoDeepDive(t *testing.T) {
	o, m := newPipeline(t)

	m.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(intent.Default())
	m.extractor.EXPECT().ExtractQueries(gomock.Any(), gomock.Any()).Return(nil)
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("답변"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"ideas": ["금리 인하 시점", "환율 영향"]}`, nil)

	// The only report goes to idea one; idea two finds every candidate visited.
	m.reports.EXPECT().Retrieve(gomock.Any(), gomock.Any()).
		Return([]evidence.ReportMatch{{ID: "rpt1_0", Score: 0.9, Title: "금리 리포트"}}, nil)
	analyticsCalls := 0
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, messages []llm.Message, callback func(string) error) error {
			analyticsCalls++
			return callback("분석 1")
		})
	m.reports.EXPECT().Retrieve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q retriever.ReportQuery) ([]evidence.ReportMatch, error) {
			if !q.ExcludeKeys["rpt1"] {
				t.Errorf("ExcludeKeys = %v, want rpt1 excluded", q.ExcludeKeys)
			}
			return nil, nil
		})

	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("결론"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"questions": []}`, nil)

	var events []Event
	record, err := o.Answer(context.Background(), "질문", evidence.ScopeDomestic, collectEvents(&events))
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}
	if analyticsCalls != 1 {
		t.Errorf("analytics generated for %d ideas, want 1", analyticsCalls)
	}
	if len(record.IdeaAnswers) != 1 {
		t.Fatalf("IdeaAnswers = %d, want 1", len(record.IdeaAnswers))
	}
	if record.IdeaAnswers[0].MainIdea != "금리 인하 시점" {
		t.Errorf("kept idea = %q, want the one with a report", record.IdeaAnswers[0].MainIdea)
	}
	if record.IdeaAnswers[0].SelectedReport == nil {
		t.Fatal("kept idea must carry its report")
	}

	// Both ideas still announce their report selection; only the first one
	// gets an analytics stage.
	wantStages := []Stage{
		StageIntentClassified, StageNewsRetrieved, StageNewsAnswerChunk,
		StageMainIdeasReady,
		StageReportSelected, StageAnalyticsChunk,
		StageReportSelected,
		StageConclusionChunk, StageNextQuestionsReady, StageDone,
	}
	if len(events) != len(wantStages) {
		t.Fatalf("got %d events, want %d", len(events), len(wantStages))
	}
	for i, want := range wantStages {
		if events[i].Stage != want {
			t.Errorf("events[%d].Stage = %q, want %q", i, events[i].Stage, want)
		}
	}
}

func TestAnswer_SinkErrorAborts(t *testing.T) {
	o, m := newPipeline(t)

	m.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(intent.Default())

	sink := func(event Event) error { return errors.New("client disconnected") }
	if _, err := o.Answer(context.Background(), "질문", evidence.ScopeDomestic, sink); err == nil {
		t.Fatal("Answer() expected error when the sink fails")
	}
}

func TestAnswer_MainIdeaExhaustionSkipsDeepDives(t *testing.T) {
	o, m := newPipeline(t)

	m.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(intent.Default())
	m.extractor.EXPECT().ExtractQueries(gomock.Any(), gomock.Any()).Return(nil)
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("답변"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return("not json", nil).Times(3)
	m.chat.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamText("결론"))
	m.chat.EXPECT().ChatJSON(gomock.Any(), gomock.Any()).
		Return(`{"questions": []}`, nil)

	var events []Event
	record, err := o.Answer(context.Background(), "질문", evidence.ScopeDomestic, collectEvents(&events))
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}
	if len(record.IdeaAnswers) != 0 {
		t.Errorf("IdeaAnswers = %v, want none after idea extraction exhaustion", record.IdeaAnswers)
	}
}
