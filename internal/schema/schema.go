// Package schema validates raw key payloads against an embedded CUE schema
// before they are decoded.
//
// Two shapes are accepted for each payload: a bare JSON array, or an object
// wrapping the array (`{"leads": [...]}` / `{"records": [...]}`).
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed lead.cue
var leadSchema string

// Definition paths inside lead.cue.
const (
	DatasetDef = "#Dataset"
	RecordsDef = "#Records"
)

// ValidationError reports a payload that does not satisfy the schema.
type ValidationError struct {
	Def     string    // definition validated against
	Message string    // first CUE error message
	Pos     token.Pos // position inside the payload, if known
	Count   int       // total number of CUE errors
}

func (e *ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Def, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Def, e.Message)
}

// Validator checks payloads against the compiled schema.
//
// A cue.Context is not safe for concurrent use, so Validate serializes callers.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(leadSchema, cue.Filename("lead.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile lead schema: %w", err)
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// ValidateDataset checks a dataset payload.
func (v *Validator) ValidateDataset(data []byte) error {
	return v.Validate(DatasetDef, "dataset.json", data)
}

// ValidateRecords checks a record-filter payload.
func (v *Validator) ValidateRecords(data []byte) error {
	return v.Validate(RecordsDef, "records.json", data)
}

// Validate unifies the JSON payload with the named definition and requires
// the result to be concrete.
func (v *Validator) Validate(def, filename string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := v.schema.LookupPath(cue.ParsePath(def))
	if !target.Exists() {
		return fmt.Errorf("schema definition %s not found", def)
	}

	payload := v.ctx.CompileBytes(data, cue.Filename(filename))
	if err := payload.Err(); err != nil {
		return toValidationError(def, err)
	}

	if err := target.Unify(payload).Validate(cue.Concrete(true)); err != nil {
		return toValidationError(def, err)
	}
	return nil
}

// toValidationError extracts the first CUE error and its position.
func toValidationError(def string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Def: def, Message: err.Error(), Count: 1}
	}

	first := errs[0]
	ve := &ValidationError{Def: def, Message: first.Error(), Count: len(errs)}
	if positions := errors.Positions(first); len(positions) > 0 {
		ve.Pos = positions[0]
	}
	return ve
}
