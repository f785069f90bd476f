package main

import (
	"encoding/json"
	"os"
)

// ErrorResponse is the JSON payload written for any command failure.
// Malformed or missing input never produces a stack trace.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs a JSON error payload and exits.
func exitWithError(code int, msg string) {
	outputJSON(ErrorResponse{Error: msg})
	os.Exit(code)
}
