package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load reads and validates a dataset file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	t, err := parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return t, nil
}

// parse validates raw YAML against the embedded schema, then decodes.
// Validation runs first so decode errors surface with CUE positions
// rather than as half-populated structs.
func parse(source string, data []byte) (*Table, error) {
	if err := validate(source, data); err != nil {
		return nil, err
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	t.Source = source
	return &t, nil
}

// validate unifies the YAML document with the #Table schema definition.
func validate(source string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	table := schema.LookupPath(cue.ParsePath("#Table"))
	if err := table.Err(); err != nil {
		return fmt.Errorf("lookup #Table: %w", err)
	}

	file, err := cueyaml.Extract(source, data)
	if err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build yaml: %w", err)
	}

	unified := table.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}
