// Package content extracts the prompt and answer sections from a question's
// HTML content blob. Extraction is best effort: the content is expected to
// hold a question heading, an <hr>, and an answer section, but nothing
// enforces that, so every extractor falls back to the full content verbatim.
package content

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// The question section is the body after a heading mentioning the
	// question marker, up to the first <hr> or the next heading.
	questionSectionRe = regexp.MustCompile(`(?is)<h2[^>]*>.*?(?:题目|question).*?</h2>(.*?)(?:<hr|<h2|\z)`)

	// The answer section is everything after the <hr> that follows the
	// question heading.
	answerAfterHrRe = regexp.MustCompile(`(?is)<h2[^>]*>.*?(?:题目|question).*?</h2>.*?<hr\s*/?>(.*)\z`)

	// Fallback: content after a recognizable answer/analysis heading.
	answerHeadingRe = regexp.MustCompile(`(?is)<h2[^>]*>.*?(?:深入解析|答题示例|解析|参考答案|answer|analysis).*?</h2>(.*)\z`)

	titleOrdinalRe = regexp.MustCompile(`^(\d+)\.`)
)

// QuestionSection returns the prompt portion of the content, or the whole
// content when no question heading is found.
func QuestionSection(content string) string {
	if content == "" {
		return ""
	}
	if m := questionSectionRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return content
}

// AnswerSection returns the answer portion of the content, or the whole
// content when neither the <hr> convention nor an answer heading matches.
func AnswerSection(content string) string {
	if content == "" {
		return ""
	}
	if m := answerAfterHrRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := answerHeadingRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return content
}

// TitleOrdinal parses the leading "N." ordinal of a question title.
// Titles without one sort as 0.
func TitleOrdinal(title string) int {
	m := titleOrdinalRe.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
