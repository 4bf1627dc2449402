package synthesis

import (
	"fmt"
	"strings"
	"time"

	"market-octopus/internal/evidence"
)

// Prompt layout is fixed: instruction block, today's date, the question, then
// the evidence block — omitted entirely when the round found no evidence, so
// the model answers from general knowledge instead of an empty citation list.

func promptHeader(instruction string, now time.Time, question string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Today is %s.\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Question: %s\n", question)
	return b.String()
}

func newsAnswerPrompt(now time.Time, question string, news []evidence.NewsMatch) string {
	instruction := "You are a financial market analyst. Answer the user's question in Korean. " +
		"Base the answer on the news excerpts below when present; cite the publisher inline."
	var b strings.Builder
	b.WriteString(promptHeader(instruction, now, question))
	if block := newsBlock(news); block != "" {
		b.WriteString("\n")
		b.WriteString(block)
	}
	return b.String()
}

func mainIdeasPrompt(now time.Time, question, newsAnswer string) string {
	instruction := "You are a financial market analyst. From the answer below, list the distinct " +
		"main ideas worth a deeper dive into analyst research, most important first. " +
		"Keep each idea to one short sentence in Korean.\n" +
		`Respond with JSON: {"ideas": ["<idea>", ...]}`
	var b strings.Builder
	b.WriteString(promptHeader(instruction, now, question))
	if newsAnswer != "" {
		b.WriteString("\nAnswer so far:\n")
		b.WriteString(newsAnswer)
		b.WriteString("\n")
	}
	return b.String()
}

func analyticsPrompt(now time.Time, question, idea string, report *evidence.ReportMatch) string {
	instruction := "You are a financial market analyst. Analyze the main idea below in depth, in Korean. " +
		"When an analyst report excerpt is provided, ground the analysis on it and name the publisher."
	var b strings.Builder
	b.WriteString(promptHeader(instruction, now, question))
	fmt.Fprintf(&b, "Main idea: %s\n", idea)
	if report != nil {
		b.WriteString("\n")
		b.WriteString(reportBlock(*report))
	}
	return b.String()
}

func conclusionPrompt(now time.Time, question, newsAnswer string, analytics []string) string {
	instruction := "You are a financial market analyst. Write a concise conclusion in Korean that " +
		"synthesizes the analyses below into a direct answer to the question."
	var b strings.Builder
	b.WriteString(promptHeader(instruction, now, question))
	if newsAnswer != "" {
		b.WriteString("\nNews-based answer:\n")
		b.WriteString(newsAnswer)
		b.WriteString("\n")
	}
	for i, text := range analytics {
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\nAnalysis %d:\n%s\n", i+1, text)
	}
	return b.String()
}

func nextQuestionsPrompt(now time.Time, question, conclusion string) string {
	instruction := "You are a financial market analyst. Suggest up to three follow-up questions in " +
		"Korean the user is likely to ask next.\n" +
		`Respond with JSON: {"questions": ["<question>", ...]}`
	var b strings.Builder
	b.WriteString(promptHeader(instruction, now, question))
	if conclusion != "" {
		b.WriteString("\nConclusion:\n")
		b.WriteString(conclusion)
		b.WriteString("\n")
	}
	return b.String()
}

func newsBlock(news []evidence.NewsMatch) string {
	if len(news) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("News excerpts:\n")
	for i, m := range news {
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n", i+1, m.Title, m.Publisher, m.RelatedParagraph)
	}
	return b.String()
}

func reportBlock(r evidence.ReportMatch) string {
	var b strings.Builder
	b.WriteString("Analyst report excerpt:\n")
	fmt.Fprintf(&b, "Title: %s\n", r.Title)
	if r.Publisher != "" {
		fmt.Fprintf(&b, "Publisher: %s\n", r.Publisher)
	}
	if !r.PublishedAt.IsZero() {
		fmt.Fprintf(&b, "Published: %s\n", r.PublishedAt.Format("2006-01-02"))
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	}
	fmt.Fprintf(&b, "Content: %s\n", r.Content)
	return b.String()
}
