package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
)

// decode round-trips the tool arguments through JSON into T, so records keep
// their free-form fields and typed inputs get their json tags applied.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, errors.NewValidation(fmt.Sprintf("invalid arguments: %v", err))
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, errors.NewValidation(fmt.Sprintf("invalid arguments: %v", err))
	}
	return out, nil
}
