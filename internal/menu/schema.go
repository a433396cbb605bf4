package menu

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// itemSchema constrains imported menu definitions. Items are open structs:
// label is required, the well-known navigation fields are typed when
// present, and anything else passes through untouched.
const itemSchema = `
#MenuItem: {
	label!: string
	icon?:  string
	to?:    string
	items?: [...#MenuItem]
	...
}
`

// ValidateTree checks every item in an imported menu definition against the
// schema. Returns the first violation found.
func ValidateTree(items []map[string]any) error {
	cuectx := cuecontext.New()
	schema := cuectx.CompileString(itemSchema).LookupPath(cue.ParsePath("#MenuItem"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("menu schema: %w", err)
	}

	for i, item := range items {
		if err := validateItem(cuectx, schema, item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ValidateItem checks a single item (including nested items) against the
// schema.
func ValidateItem(item map[string]any) error {
	cuectx := cuecontext.New()
	schema := cuectx.CompileString(itemSchema).LookupPath(cue.ParsePath("#MenuItem"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("menu schema: %w", err)
	}
	return validateItem(cuectx, schema, item)
}

func validateItem(cuectx *cue.Context, schema cue.Value, item map[string]any) error {
	val := cuectx.Encode(item)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	if err := schema.Unify(val).Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
