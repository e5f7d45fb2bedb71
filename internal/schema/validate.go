package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Status classifies a validation outcome.
type Status string

const (
	// StatusUnknown means no schema was available.
	StatusUnknown Status = "unknown"
	// StatusValid means the document conforms to the schema.
	StatusValid Status = "valid"
	// StatusInvalid means the document does not conform.
	StatusInvalid Status = "invalid"
	// StatusError means validation could not be performed.
	StatusError Status = "error"
)

// Result holds the outcome of validating a document against a schema.
type Result struct {
	Status  Status
	Message string // human-readable reason (empty when valid)
}

// compiled memoizes compiled schemas by content hash; schema files are
// re-validated against often (every editor validate call).
var compiled, _ = lru.New[string, *jsonschema.Schema](32)

// ValidateDocument validates a document (in encoding/json shape) against
// raw schema bytes.
func ValidateDocument(doc any, schemaBytes []byte) Result {
	if len(schemaBytes) == 0 {
		return Result{Status: StatusUnknown, Message: "no schema loaded"}
	}
	sch, err := compile(schemaBytes)
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("schema compile error: %v", err)}
	}
	if err := sch.Validate(doc); err != nil {
		return Result{Status: StatusInvalid, Message: extractValidationError(err)}
	}
	return Result{Status: StatusValid}
}

func compile(schemaBytes []byte) (*jsonschema.Schema, error) {
	sum := sha256.Sum256(schemaBytes)
	key := hex.EncodeToString(sum[:])
	if sch, ok := compiled.Get(key); ok {
		return sch, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(string(schemaBytes))); err != nil {
		return nil, err
	}
	sch, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, err
	}
	compiled.Add(key, sch)
	return sch, nil
}

// extractValidationError reduces the validator's multi-line error to a
// single concise message for the status surface.
func extractValidationError(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()
	if idx := strings.Index(errStr, "missing properties:"); idx >= 0 {
		return "missing required: " + strings.TrimSpace(errStr[idx+len("missing properties:"):])
	}
	lines := strings.Split(errStr, "\n")
	msg := lines[0]
	if len(lines) > 1 {
		// The first detail line usually carries the interesting part.
		msg = strings.TrimSpace(lines[len(lines)-1])
	}
	if len(msg) > 120 {
		msg = msg[:117] + "..."
	}
	return msg
}
