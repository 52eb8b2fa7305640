// Package extract locates and parses the structured document embedded in
// free-form model output.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"socialforge/internal/types"
	"socialforge/internal/util/jsonutil"
)

// ErrNoJSON reports that the response contains no brace-delimited span at all.
var ErrNoJSON = errors.New("extract: no JSON object found in model response")

// MalformedError reports a brace-delimited span that failed to parse,
// carrying the parser diagnostic.
type MalformedError struct {
	Diag error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("extract: malformed JSON in model response: %v", e.Diag)
}

func (e *MalformedError) Unwrap() error { return e.Diag }

// Package scans rawText for the first '{' and the last '}' and parses the
// span between them, inclusive. This tolerates prose or markdown fences
// around the JSON. If the response holds two independent objects the
// outermost span wins, which can mis-extract; that tolerance tradeoff is
// deliberate and stays until product says otherwise.
//
// No schema validation happens here: a parse that succeeds is returned even
// with channels missing, and consumers treat a nil channel as absent content.
func Package(rawText string) (types.ContentPackage, error) {
	start := strings.Index(rawText, "{")
	end := strings.LastIndex(rawText, "}")
	if start == -1 || end == -1 || end < start {
		return types.ContentPackage{}, ErrNoJSON
	}
	candidate := rawText[start : end+1]

	var pkg types.ContentPackage
	if err := jsonutil.UnmarshalFlex([]byte(candidate), &pkg); err != nil {
		// Valid JSON with a wrong-typed field is still a usable result: the
		// decoder fills everything else and the mistyped channel reads as
		// absent content. Only syntax failures are malformed.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return pkg, nil
		}
		return types.ContentPackage{}, &MalformedError{Diag: err}
	}
	return pkg, nil
}
