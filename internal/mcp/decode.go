package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps a tool call's argument map onto one of the request structs in
// handlers.go via a JSON round-trip. The round-trip applies the structs'
// snake_case tags and type coercion in one place instead of per-field
// assertions in every handler.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var in T

	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return in, fmt.Errorf("encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("decode tool arguments: %w", err)
	}
	return in, nil
}
