package httpapi

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://healthsync.local/schemas/"

// requestSchemas holds the compiled body schema of every endpoint.
type requestSchemas struct {
	test    *jsonschema.Schema
	sync    *jsonschema.Schema
	pull    *jsonschema.Schema
	inspect *jsonschema.Schema
}

func compileSchemas() (*requestSchemas, error) {
	c := jsonschema.NewCompiler()

	names := []string{"test", "sync", "pull", "inspect"}
	for _, name := range names {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, err
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		if err := c.AddResource(schemaBaseURL+name+".json", doc); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}

	compiled := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		sch, err := c.Compile(schemaBaseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		compiled[name] = sch
	}

	return &requestSchemas{
		test:    compiled["test"],
		sync:    compiled["sync"],
		pull:    compiled["pull"],
		inspect: compiled["inspect"],
	}, nil
}

// validateBody checks raw against sch and returns a single-line reason.
func validateBody(sch *jsonschema.Schema, raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.New("request body must be valid JSON")
	}
	if err := sch.Validate(inst); err != nil {
		msg := strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", "; ")
		msg = strings.ReplaceAll(msg, schemaBaseURL, "")
		return fmt.Errorf("invalid request: %s", msg)
	}
	return nil
}
