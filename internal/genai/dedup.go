package genai

import (
	"regexp"
	"strings"

	"examcraft/internal/domain"
)

// Letters and digits in any script; generated content may be Devanagari.
var nonAlnumRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// fingerprint derives the dedup key: lower-cased question text plus the
// first two options with everything but letters and digits stripped,
// truncated to maxLen runes. Cheap and approximate; it only needs to catch
// near-verbatim regenerations, which is what the model produces under retry
// and backfill.
func fingerprint(q *domain.QuestionCandidate, maxLen int) string {
	s := strings.ToLower(q.QuestionText + q.OptionA + q.OptionB)
	s = nonAlnumRe.ReplaceAllString(s, "")
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	return s
}

// dedupe filters near-duplicate questions, keeping the first occurrence and
// preserving input order.
func dedupe(questions []*domain.QuestionCandidate, fpLen int) []*domain.QuestionCandidate {
	seen := make(map[string]struct{}, len(questions))
	out := make([]*domain.QuestionCandidate, 0, len(questions))
	for _, q := range questions {
		fp := fingerprint(q, fpLen)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, q)
	}
	return out
}
