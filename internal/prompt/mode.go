package prompt

import (
	"fmt"
	"strings"
)

// Mode selects which generation template is used. The set is closed;
// adding a mode means adding a template and a ParseMode case.
type Mode int

const (
	ModeSimplify Mode = iota
	ModeFullTheory
	ModeExamples
	ModeQA
)

// ParseMode maps the wire representation of a mode to its enum value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simplify":
		return ModeSimplify, nil
	case "full_theory", "fulltheory":
		return ModeFullTheory, nil
	case "examples":
		return ModeExamples, nil
	case "qa":
		return ModeQA, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeSimplify:
		return "simplify"
	case ModeFullTheory:
		return "full_theory"
	case ModeExamples:
		return "examples"
	case ModeQA:
		return "qa"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
