package emitter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"fnscan/internal/adapter/scanner"
	"fnscan/internal/domain"
)

type document struct {
	Data []struct {
		Object string `json:"object"`
		Name   string `json:"name"`
		Largs  []struct {
			Type string `json:"type"`
			Arg  string `json:"arg"`
		} `json:"largs"`
	} `json:"data"`
}

func TestEmitShape(t *testing.T) {
	records := []domain.FunctionRecord{
		{
			ReturnType:   "int",
			FunctionName: "add",
			Arguments: []domain.Argument{
				{ArgType: "int", ArgName: "a"},
				{ArgType: "int", ArgName: "b"},
			},
			FunctionBody: "return a+b;",
		},
		{ReturnType: "int", FunctionName: "main", Arguments: []domain.Argument{}},
	}

	out := Emit(records)
	expected := `{"data":[{"object":"function","name":"add","largs":[{"type":"int","arg":"a"},{"type":"int","arg":"b"}]},{"object":"function","name":"main","largs":[]}]}`
	if out != expected {
		t.Fatalf("unexpected output:\n%s", out)
	}

	var doc document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Data) != 2 || doc.Data[0].Object != "function" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestEmitEmpty(t *testing.T) {
	if out := Emit(nil); out != `{"data":[]}` {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestEmitOmitsBody(t *testing.T) {
	out := Emit([]domain.FunctionRecord{{FunctionName: "f", FunctionBody: "secret_body_text"}})
	if strings.Contains(out, "secret_body_text") {
		t.Errorf("body leaked into output: %s", out)
	}
}

func TestEmitIsIdempotent(t *testing.T) {
	records := []domain.FunctionRecord{
		{FunctionName: "f", Arguments: []domain.Argument{{ArgType: "char", ArgName: "c"}}},
	}
	e := New()
	if first, second := e.Emit(records), e.Emit(records); first != second {
		t.Errorf("outputs differ:\n%s\n%s", first, second)
	}
}

func TestScanEmitRoundTrip(t *testing.T) {
	src := "int add(int a, int b) { return a+b; } void log(char msg) { print; }"
	records, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc document
	if err := json.Unmarshal([]byte(Emit(records)), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Data) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(doc.Data))
	}
	if doc.Data[0].Name != "add" || len(doc.Data[0].Largs) != 2 || doc.Data[0].Largs[1].Arg != "b" {
		t.Errorf("unexpected first entry: %+v", doc.Data[0])
	}
	if doc.Data[1].Name != "log" || doc.Data[1].Largs[0].Type != "char" {
		t.Errorf("unexpected second entry: %+v", doc.Data[1])
	}
}

// Identifiers are written without escaping; a quote corrupts the document
// and Normalize must refuse it.
func TestEmitUnescapedQuoteCorruptsOutput(t *testing.T) {
	out := Emit([]domain.FunctionRecord{{FunctionName: `say"hi`}})
	if json.Valid([]byte(out)) {
		t.Fatalf("expected invalid JSON, got %s", out)
	}
	if _, err := Normalize(out, ""); !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}

	out = Emit([]domain.FunctionRecord{{FunctionName: `path\x`}})
	if _, err := Normalize(out, ""); !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput for backslash, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	doc := Emit([]domain.FunctionRecord{{FunctionName: "f", Arguments: []domain.Argument{{ArgType: "int", ArgName: "x"}}}})

	compact, err := Normalize(doc, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(compact) != doc {
		t.Errorf("compact output changed the document: %s", compact)
	}

	indented, err := Normalize(doc, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(indented), "\n  \"data\": [") {
		t.Errorf("expected indented output, got:\n%s", indented)
	}
}
