package heuristic

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/missionscan/internal/model"
)

// Selectors scanned by each tier of goal detection.
const (
	listSelector  = "li"
	blockSelector = "div, p, span"
)

// Goals recovers the goal list from rendered markup.
// The result is never nil and is deduplicated by text in first-seen order.
func Goals(markup string) []model.Goal {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return []model.Goal{}
	}
	return GoalsFromDocument(doc)
}

// GoalsFromDocument runs goal detection over an already parsed document.
func GoalsFromDocument(doc *goquery.Document) []model.Goal {
	candidates := collect(doc, listSelector, func(text string) bool {
		return HasProgress(text) || StartsWithGoalVerb(text)
	})

	if len(candidates) == 0 {
		candidates = collect(doc, blockSelector, HasProgress)
	}

	return Dedupe(candidates)
}

// collect returns the cleaned text of every element under selector that
// accept approves, nested matches included. A wrapper is left out only when
// it holds two or more distinct matching texts, since its own text is then
// several goals run together.
func collect(doc *goquery.Document, selector string, accept func(string) bool) []model.Goal {
	var goals []model.Goal
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		text := Clean(s.Text())
		if text == "" || !accept(text) {
			return
		}
		if isWrapper(s, selector, accept) {
			return
		}
		goals = append(goals, model.Goal{Text: text, IsCompleted: IsCompleted(text)})
	})
	return goals
}

// isWrapper reports whether s contains at least two descendants under
// selector whose cleaned texts differ and are both accepted.
func isWrapper(s *goquery.Selection, selector string, accept func(string) bool) bool {
	inner := make(map[string]bool)
	s.Find(selector).EachWithBreak(func(_ int, c *goquery.Selection) bool {
		text := Clean(c.Text())
		if text != "" && accept(text) {
			inner[text] = true
		}
		return len(inner) < 2
	})
	return len(inner) >= 2
}

// Dedupe drops goals whose text was already seen, keeping the first.
func Dedupe(goals []model.Goal) []model.Goal {
	seen := make(map[string]bool, len(goals))
	out := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		if seen[g.Text] {
			continue
		}
		seen[g.Text] = true
		out = append(out, g)
	}
	return out
}

// BodyText returns the cleaned visible text of the page body.
func BodyText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return BodyTextFromDocument(doc)
}

// BodyTextFromDocument returns the cleaned visible text of the body of doc.
// Script and style contents are not part of it.
func BodyTextFromDocument(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	return Clean(body.Text())
}
