package scanner

import (
	"fmt"
	"strings"

	"fnscan/internal/domain"
)

// Phase is the part of a function signature the scanner is consuming.
type Phase int

const (
	PhaseReturnType Phase = iota
	PhaseFunctionName
	PhaseArgumentList
	// PhaseNone is active between the closing parenthesis and the end of
	// the record. Characters outside the body are dropped here.
	PhaseNone
)

func (p Phase) String() string {
	switch p {
	case PhaseReturnType:
		return "return-type"
	case PhaseFunctionName:
		return "function-name"
	case PhaseArgumentList:
		return "argument-list"
	default:
		return "none"
	}
}

// Scanner segments simplified C-like source into function records.
type Scanner struct{}

// New creates a new scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan implements port.Scanner.
func (s *Scanner) Scan(source string) ([]domain.FunctionRecord, error) {
	return Scan(source)
}

// scanState is the per-scan state machine. The body has its own builder so
// text captured between braces never mixes with the signature buffer.
type scanState struct {
	phase  Phase
	inBody bool
	buf    strings.Builder
	body   strings.Builder
	rec    domain.FunctionRecord
}

// Scan walks source one character at a time and returns the records it
// closed, in source order. A malformed argument list aborts the whole scan.
// A trailing record without a closing brace is discarded.
func Scan(source string) ([]domain.FunctionRecord, error) {
	records := []domain.FunctionRecord{}
	st := &scanState{}

	for _, c := range source {
		switch c {
		case '\n':
		case ' ':
			if st.phase == PhaseReturnType && st.buf.Len() > 0 {
				st.rec.ReturnType = st.flush()
				st.phase = PhaseFunctionName
				continue
			}
			st.push(c)
		case '(':
			st.rec.FunctionName = st.flush()
			st.phase = PhaseArgumentList
		case ')':
			args, err := ParseArguments(st.buf.String())
			if err != nil {
				return nil, fmt.Errorf("function %q: %w", st.rec.FunctionName, err)
			}
			st.rec.Arguments = args
			st.buf.Reset()
			st.phase = PhaseNone
		case '{':
			st.inBody = true
		case '}':
			st.rec.FunctionBody = strings.TrimSpace(st.body.String())
			if st.rec.Arguments == nil {
				st.rec.Arguments = []domain.Argument{}
			}
			records = append(records, st.rec)
			st.reset()
		default:
			st.push(c)
		}
	}

	return records, nil
}

func (st *scanState) push(c rune) {
	switch {
	case st.phase != PhaseNone:
		st.buf.WriteRune(c)
	case st.inBody:
		st.body.WriteRune(c)
	}
}

// flush returns the trimmed buffer and clears it.
func (st *scanState) flush() string {
	s := strings.TrimSpace(st.buf.String())
	st.buf.Reset()
	return s
}

func (st *scanState) reset() {
	st.phase = PhaseReturnType
	st.inBody = false
	st.buf.Reset()
	st.body.Reset()
	st.rec = domain.FunctionRecord{}
}
