package emitter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"fnscan/internal/domain"
)

// ErrMalformedOutput is returned by Normalize when the emitted text is not
// valid JSON, which happens when an identifier carries a quote or backslash.
var ErrMalformedOutput = errors.New("emitted document is not valid JSON")

// Emitter renders function records as the output document.
type Emitter struct{}

// New creates a new emitter.
func New() *Emitter {
	return &Emitter{}
}

// Emit implements port.Emitter.
func (e *Emitter) Emit(records []domain.FunctionRecord) string {
	return Emit(records)
}

// Emit writes records under a top-level "data" key. Names and argument
// fields are inserted verbatim without escaping. Bodies are not emitted.
func Emit(records []domain.FunctionRecord) string {
	var sb strings.Builder
	sb.WriteString(`{"data":[`)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"object":"function","name":"`)
		sb.WriteString(rec.FunctionName)
		sb.WriteString(`","largs":[`)
		for j, arg := range rec.Arguments {
			if j > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(`{"type":"`)
			sb.WriteString(arg.ArgType)
			sb.WriteString(`","arg":"`)
			sb.WriteString(arg.ArgName)
			sb.WriteString(`"}`)
		}
		sb.WriteString("]}")
	}
	sb.WriteString("]}")
	return sb.String()
}

// Normalize checks that doc parses as JSON and re-renders it, compact when
// indent is empty.
func Normalize(doc string, indent string) ([]byte, error) {
	if !json.Valid([]byte(doc)) {
		return nil, ErrMalformedOutput
	}

	var buf bytes.Buffer
	var err error
	if indent == "" {
		err = json.Compact(&buf, []byte(doc))
	} else {
		err = json.Indent(&buf, []byte(doc), "", indent)
	}
	if err != nil {
		return nil, errors.Join(ErrMalformedOutput, err)
	}
	return buf.Bytes(), nil
}
