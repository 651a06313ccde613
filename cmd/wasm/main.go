//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"fnscan/internal/adapter/emitter"
	"fnscan/internal/adapter/scanner"
)

func main() {
	c := make(chan struct{})

	js.Global().Set("fnscanExtract", js.FuncOf(extractSource))
	js.Global().Set("fnscanRecords", js.FuncOf(scanRecords))

	<-c
}

// extractSource returns the output document for a source string.
func extractSource(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: fnscanExtract(source, [indent])")
	}

	records, err := scanner.Scan(args[0].String())
	if err != nil {
		return makeError("scan failed: " + err.Error())
	}

	indent := ""
	if len(args) > 1 {
		indent = args[1].String()
	}
	doc, err := emitter.Normalize(emitter.Emit(records), indent)
	if err != nil {
		return makeError(err.Error())
	}
	return string(doc)
}

// scanRecords returns the full records, bodies included.
func scanRecords(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: fnscanRecords(source)")
	}

	records, err := scanner.Scan(args[0].String())
	if err != nil {
		return makeError("scan failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
