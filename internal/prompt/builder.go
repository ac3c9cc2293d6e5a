package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuestionRequired is returned when QA mode is requested without a question.
var ErrQuestionRequired = errors.New("qa mode requires a question")

// SystemInstruction is sent as the system message on every generation.
const SystemInstruction = "You are a patient study assistant. You answer strictly from the provided textbook excerpt. When the excerpt does not cover the topic, say so instead of inventing material."

var modeTemplates = map[Mode]string{
	ModeSimplify:   "Explain the following textbook content in simple terms a first-year student can follow. Keep the structure of the original and define every technical term on first use.",
	ModeFullTheory: "Write a complete theory summary of the following textbook content: definitions, key results, and how the concepts relate to each other. Do not drop any major section.",
	ModeExamples:   "Give concrete real-world examples that illustrate the concepts in the following textbook content. For each example, name the concept it illustrates.",
	ModeQA:         "Answer the question below using only the provided textbook excerpt.",
}

// Builder turns extracted document text into a single instruction string.
// MaxContextChars bounds how much document text is included; the per-mode
// template and (for QA) the question are never truncated.
type Builder struct {
	MaxContextChars int
}

// NewBuilder returns a Builder with the given document-text budget.
func NewBuilder(maxContextChars int) *Builder {
	if maxContextChars <= 0 {
		maxContextChars = 24000
	}
	return &Builder{MaxContextChars: maxContextChars}
}

// Build produces the user prompt for one generation.
//
// Truncation policy when the document exceeds the budget:
//   - non-QA modes keep the beginning of the document, since summaries and
//     simplifications should follow the book's own order;
//   - QA keeps the paragraphs most similar to the question, since relevance
//     matters more than position for answering.
func (b *Builder) Build(text string, mode Mode, question string) (string, error) {
	tpl, ok := modeTemplates[mode]
	if !ok {
		return "", fmt.Errorf("unknown mode %q", mode)
	}

	question = strings.TrimSpace(question)
	if mode == ModeQA && question == "" {
		return "", ErrQuestionRequired
	}

	var excerpt string
	if mode == ModeQA {
		excerpt = selectRelevant(text, question, b.MaxContextChars)
	} else {
		excerpt = truncateHead(text, b.MaxContextChars)
	}

	var sb strings.Builder
	sb.WriteString(tpl)
	sb.WriteString("\n\n")
	if mode == ModeQA {
		sb.WriteString("Question: ")
		sb.WriteString(question)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Textbook excerpt:\n")
	sb.WriteString(excerpt)
	return sb.String(), nil
}

// truncateHead keeps the first budget characters, cutting at a line
// boundary where possible.
func truncateHead(text string, budget int) string {
	text = strings.TrimSpace(text)
	if len(text) <= budget {
		return text
	}
	cut := text[:budget]
	if i := strings.LastIndexByte(cut, '\n'); i > budget/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

// selectRelevant ranks paragraphs by trigram similarity to the question,
// packs the budget most-relevant-first, and emits the survivors in their
// original document order.
func selectRelevant(text string, question string, budget int) string {
	text = strings.TrimSpace(text)
	if len(text) <= budget {
		return text
	}

	paras := splitParagraphs(text)
	q := trigramSet(question)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(paras))
	for i, p := range paras {
		ranked = append(ranked, scored{idx: i, score: trigramSimilarity(q, trigramSet(p))})
	}
	// Highest similarity first; ties resolved by document position.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0; j-- {
			a, bb := ranked[j-1], ranked[j]
			if bb.score > a.score || (bb.score == a.score && bb.idx < a.idx) {
				ranked[j-1], ranked[j] = bb, a
			} else {
				break
			}
		}
	}

	used := 0
	keep := make(map[int]bool, len(paras))
	for _, r := range ranked {
		cost := len(paras[r.idx]) + 2
		if used+cost > budget {
			continue
		}
		keep[r.idx] = true
		used += cost
	}

	out := make([]string, 0, len(keep))
	for i, p := range paras {
		if keep[i] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		// Question matched nothing; fall back to the head so the model still
		// sees document context.
		return truncateHead(text, budget)
	}
	return strings.Join(out, "\n\n")
}

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
