package synonym

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// QueryContext runs an ad-hoc jq expression against a member's
// context_json blob (the {"rationale", "model", "trigger", "added_at"}
// object enrichSlowPath writes). It exists so operators can introspect
// AI-suggestion provenance (".rationale", ".model", ".trigger") without a
// fixed Go accessor for every field that might end up in the blob.
func QueryContext(contextJSON, jqExpr string) (any, error) {
	query, err := gojq.Parse(jqExpr)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression %q: %w", jqExpr, err)
	}

	var input any
	if contextJSON != "" {
		if err := json.Unmarshal([]byte(contextJSON), &input); err != nil {
			return nil, fmt.Errorf("parsing context_json: %w", err)
		}
	}

	iter := query.Run(input)
	v, ok := iter.Next()
	if !ok {
		return nil, nil
	}
	if err, ok := v.(error); ok {
		return nil, fmt.Errorf("evaluating jq expression %q: %w", jqExpr, err)
	}
	return v, nil
}
