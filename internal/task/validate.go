package task

import (
	_ "embed"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// Validate checks every task against the embedded CUE schema and returns all
// violations, joined. It is a tooling-level check: the store itself persists
// whatever it is given and never rejects or repairs payloads.
func Validate(tasks []Task) error {
	ctx := cuecontext.New()

	root := ctx.CompileString(schemaSource)
	if err := root.Err(); err != nil {
		return fmt.Errorf("compile task schema: %w", err)
	}
	schema := root.LookupPath(cue.ParsePath("#Task"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("lookup #Task definition: %w", err)
	}

	var errs []error
	for i, t := range tasks {
		v := ctx.Encode(t)
		if err := v.Err(); err != nil {
			errs = append(errs, fmt.Errorf("task %d: encode: %w", i, err))
			continue
		}
		if err := schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
			errs = append(errs, fmt.Errorf("task %d (id %q): %w", i, t.ID, err))
		}
	}
	return errors.Join(errs...)
}
