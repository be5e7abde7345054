package genai

import (
	"fmt"
	"strings"

	"examcraft/internal/domain"
)

// buildPrompt renders the system instruction and the short user directive
// for one batch. The layout it mandates is exactly what the parser expects;
// the model violates it often enough that the parser stays tolerant anyway.
func buildPrompt(batch Batch, req *domain.GenerationRequest) (system, user string) {
	topicList := strings.Join(batch.Topics, ", ")

	difficulty := req.Difficulty
	if difficulty == domain.DifficultyMixed {
		difficulty = "a mix of easy, medium and hard"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert question setter for the %s examination.\n", req.ExamType)
	fmt.Fprintf(&b, "Write exactly %d multiple-choice questions on the following topics: %s.\n", batch.Count, topicList)
	fmt.Fprintf(&b, "Difficulty: %s. Language: %s.\n\n", difficulty, req.Medium)
	b.WriteString("Follow this exact format for every question:\n\n")
	b.WriteString("Question 1:\n")
	b.WriteString("<the full question text on its own line>\n")
	b.WriteString("A) <option>\n")
	b.WriteString("B) <option>\n")
	b.WriteString("C) <option>\n")
	b.WriteString("D) <option>\n")
	b.WriteString("Correct: <A, B, C or D>\n")
	b.WriteString("Explanation: <one or two sentences>\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Do NOT use markdown characters such as *, _, # or backticks anywhere.\n")
	b.WriteString("- The question text must start on the line AFTER the \"Question N:\" header, never on the same line.\n")
	b.WriteString("- Every question must have exactly four options and exactly one correct option.\n")
	b.WriteString("- Do not add any commentary before the first question or after the last one.\n")

	user = fmt.Sprintf("Generate the %d questions now.", batch.Count)
	return b.String(), user
}

// tokenBudget sizes max_tokens for a batch: a base allowance plus a
// per-question budget, capped.
func (g *Generator) tokenBudget(count int) int {
	budget := g.cfg.BaseTokens + g.cfg.TokensPerQuestion*count
	if budget > g.cfg.MaxTokens {
		budget = g.cfg.MaxTokens
	}
	return budget
}

// temperatureFor picks the sampling temperature: slightly conservative for
// non-English mediums, and stepping down on retries so later attempts drift
// less from the mandated layout.
func temperatureFor(medium string, attempt int) float64 {
	temp := 0.7
	if !strings.EqualFold(medium, domain.DefaultMedium) {
		temp = 0.6
	}
	if attempt > 0 {
		temp -= 0.1
	}
	if temp < 0.5 {
		temp = 0.5
	}
	return temp
}
