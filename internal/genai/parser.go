package genai

import (
	"regexp"
	"strings"

	"examcraft/internal/domain"
)

// The model's reply is free text, not a machine-readable format, and it
// violates the prompt's own layout rules often. Parsing is therefore a
// best-effort, never-failing transformer: each block is independently
// validated and kept or dropped.
var (
	reasoningBlockRe  = regexp.MustCompile(`(?s)<(think|reasoning)>.*?</(think|reasoning)>`)
	emphasisRe        = regexp.MustCompile("[*_`]+")
	headingMarkRe     = regexp.MustCompile(`(?m)^#+\s*`)
	questionHeaderRe  = regexp.MustCompile(`(?i)(?:question|प्रश्न)\s*\d+\s*[:.)\-]?`)
	leadingHeaderRe   = regexp.MustCompile(`(?i)^(?:question|प्रश्न)\s*\d+\s*[:.)\-]?\s*`)
	optionLineRe      = regexp.MustCompile(`(?i)^\(?([A-D])[).:]\s*(.*)$`)
	correctLineRe     = regexp.MustCompile(`(?i)^(?:correct(?:\s+(?:option|answer))?|ans(?:wer)?)\s*[:\-]?\s*\(?([A-D])\b`)
	explanationLineRe = regexp.MustCompile(`(?i)^(?:explanation|reason)\s*[:\-]?\s*(.*)$`)
	parenOnlyRe       = regexp.MustCompile(`^\(.*\)$`)
)

// parseQuestions extracts whatever well-formed questions it can from the
// raw model reply. It never fails; a malformed block is dropped, not fatal.
func parseQuestions(raw string, batch Batch, req *domain.GenerationRequest) []*domain.QuestionCandidate {
	text := reasoningBlockRe.ReplaceAllString(raw, "")
	text = emphasisRe.ReplaceAllString(text, "")
	text = headingMarkRe.ReplaceAllString(text, "")

	// Everything before the first header is narrative noise.
	locs := questionHeaderRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var out []*domain.QuestionCandidate
	for i, loc := range locs {
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		q := parseBlock(text[start:end])
		if q == nil {
			continue
		}
		q.ExamType = req.ExamType
		q.Difficulty = req.Difficulty
		q.Topic = batch.Topics[len(out)%len(batch.Topics)]
		out = append(out, q)
	}
	return out
}

// parseBlock turns one header-delimited block into a candidate, or nil if
// the block is not well formed.
func parseBlock(block string) *domain.QuestionCandidate {
	lines := strings.Split(block, "\n")

	optIdx := -1
	for i, line := range lines {
		if optionLineRe.MatchString(strings.TrimSpace(line)) {
			optIdx = i
			break
		}
	}

	q := &domain.QuestionCandidate{}

	// Question text: every non-empty, non-metadata line before the first
	// option marker, joined with spaces.
	limit := optIdx
	if limit < 0 {
		limit = len(lines)
	}
	var parts []string
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if parenOnlyRe.MatchString(line) {
			continue
		}
		if strings.TrimSpace(leadingHeaderRe.ReplaceAllString(line, "")) == "" {
			// stray repeated header
			continue
		}
		parts = append(parts, line)
	}
	q.QuestionText = strings.Join(parts, " ")

	if optIdx < 0 || strings.TrimSpace(q.QuestionText) == "" {
		for _, line := range lines {
			if s := strings.TrimSpace(line); s != "" {
				q.QuestionText = s
				break
			}
		}
	}

	if optIdx >= 0 {
		inExplanation := false
		for _, line := range lines[optIdx:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if m := optionLineRe.FindStringSubmatch(line); m != nil {
				inExplanation = false
				setOption(q, strings.ToUpper(m[1]), strings.TrimSpace(m[2]))
				continue
			}
			if m := correctLineRe.FindStringSubmatch(line); m != nil {
				inExplanation = false
				q.CorrectOption = strings.ToUpper(m[1])
				continue
			}
			if m := explanationLineRe.FindStringSubmatch(line); m != nil {
				q.Explanation = strings.TrimSpace(m[1])
				inExplanation = true
				continue
			}
			if inExplanation {
				q.Explanation = strings.TrimSpace(q.Explanation + " " + line)
			}
		}
	}

	if !isWellFormedBlock(q) {
		return nil
	}
	return q
}

// isWellFormedBlock is the validation predicate deciding whether a parsed
// block becomes a candidate: at least the first two options present, a
// correct letter, and question text above a tiny floor.
func isWellFormedBlock(q *domain.QuestionCandidate) bool {
	if len(strings.TrimSpace(q.QuestionText)) <= 3 {
		return false
	}
	if q.OptionA == "" || q.OptionB == "" {
		return false
	}
	switch q.CorrectOption {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

func setOption(q *domain.QuestionCandidate, letter, value string) {
	switch letter {
	case "A":
		q.OptionA = value
	case "B":
		q.OptionB = value
	case "C":
		q.OptionC = value
	case "D":
		q.OptionD = value
	}
}
