package domain

import "time"

type Document struct {
	ID      string
	Path    string
	ModTime time.Time
	Lang    string
}

// FunctionRecord is one function recognized by the scanner.
type FunctionRecord struct {
	ReturnType   string     `json:"return_type"`
	FunctionName string     `json:"function_name"`
	Arguments    []Argument `json:"arguments"`
	FunctionBody string     `json:"function_body"`
}

type Argument struct {
	ArgType string `json:"arg_type"`
	ArgName string `json:"arg_name"`
}

type Stats struct {
	TotalDocs    int `json:"total_docs"`
	TotalRecords int `json:"total_records"`
	FailedDocs   int `json:"failed_docs"`
}
