package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "simplify", want: ModeSimplify},
		{in: "Full_Theory", want: ModeFullTheory},
		{in: "examples", want: ModeExamples},
		{in: " qa ", want: ModeQA},
		{in: "summarize", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildQARequiresQuestion(t *testing.T) {
	b := NewBuilder(1000)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := b.Build("some text", ModeQA, q)
		assert.ErrorIs(t, err, ErrQuestionRequired)
	}
}

func TestBuildQAIncludesQuestionVerbatim(t *testing.T) {
	b := NewBuilder(1000)

	question := "What is opportunity cost?"
	p, err := b.Build("Opportunity cost is the value of the next best alternative.", ModeQA, question)
	require.NoError(t, err)
	assert.Contains(t, p, question)
}

func TestBuildIncludesModeTemplateAndText(t *testing.T) {
	b := NewBuilder(1000)

	for _, mode := range []Mode{ModeSimplify, ModeFullTheory, ModeExamples} {
		p, err := b.Build("Supply curves slope upward.", mode, "")
		require.NoError(t, err)
		assert.Contains(t, p, modeTemplates[mode])
		assert.Contains(t, p, "Supply curves slope upward.")
	}
}

func TestBuildTruncationKeepsHead(t *testing.T) {
	b := NewBuilder(200)

	head := "CHAPTER ONE begins here."
	tail := "APPENDIX Z ends here."
	text := head + "\n" + strings.Repeat("filler line about markets\n", 50) + tail

	p, err := b.Build(text, ModeSimplify, "")
	require.NoError(t, err)
	assert.Contains(t, p, head)
	assert.NotContains(t, p, tail)
}

func TestBuildQATruncationPrefersRelevantParagraphs(t *testing.T) {
	b := NewBuilder(400)

	relevant := "Opportunity cost is the value of the next best alternative forgone when a choice is made."
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The history of central banking involves many unrelated institutional details and dates.\n\n")
	}
	sb.WriteString(relevant)
	sb.WriteString("\n\n")
	for i := 0; i < 40; i++ {
		sb.WriteString("Further chapters discuss exchange rates and trade balances at great length.\n\n")
	}

	p, err := b.Build(sb.String(), ModeQA, "What is opportunity cost?")
	require.NoError(t, err)
	assert.Contains(t, p, relevant)
}

func TestSelectRelevantPreservesDocumentOrder(t *testing.T) {
	first := "Opportunity cost appears early in the book."
	second := "A later chapter revisits opportunity cost with examples."
	text := first + "\n\n" + strings.Repeat("padding text with nothing in common\n\n", 30) + second

	got := selectRelevant(text, "opportunity cost", 200)
	i := strings.Index(got, first)
	j := strings.Index(got, second)
	require.GreaterOrEqual(t, i, 0)
	require.GreaterOrEqual(t, j, 0)
	assert.Less(t, i, j)
}

func TestTrigramSimilarity(t *testing.T) {
	exact := trigramSimilarity(trigramSet("question"), trigramSet("question"))
	assert.Equal(t, 1.0, exact)

	typo := trigramSimilarity(trigramSet("question"), trigramSet("questoin"))
	assert.Greater(t, typo, 0.2)

	unrelated := trigramSimilarity(trigramSet("question"), trigramSet("zebra"))
	assert.Less(t, unrelated, typo)

	assert.Zero(t, trigramSimilarity(trigramSet(""), trigramSet("x")))
}
