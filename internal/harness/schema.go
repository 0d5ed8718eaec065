package harness

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioSchema string

// SchemaError reports a scenario document that does not match the
// #Scenario definition.
type SchemaError struct {
	File    string
	Details string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match scenario schema:\n%s", e.File, e.Details)
}

// CheckSchema validates a YAML scenario document against the embedded CUE
// schema. filename is only used in error positions.
func CheckSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{
			File:    filename,
			Details: cueerrors.Details(err, nil),
		}
	}
	return nil
}
