package rating

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog_schema.cue
var catalogSchema string

// CatalogError reports a catalog that failed schema validation.
type CatalogError struct {
	Path    string
	Message string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s: %s", e.Path, e.Message)
}

// LoadCatalog reads a catalog file and validates it against the embedded
// CUE schema.
//
// .yaml/.yml files are parsed with yaml.v3 and encoded into CUE; any other
// extension (.cue, .json) is compiled as CUE source, which also accepts
// plain JSON.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseCatalogYAML(path, data)
	default:
		return ParseCatalog(path, data)
	}
}

// ParseCatalog validates CUE or JSON catalog source. name is used in error
// positions.
func ParseCatalog(name string, src []byte) (Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(name))
	if err := v.Err(); err != nil {
		return Catalog{}, &CatalogError{Path: name, Message: formatCUEError(err)}
	}
	return decodeCatalog(ctx, name, v)
}

// ParseCatalogYAML validates a YAML catalog.
func ParseCatalogYAML(name string, src []byte) (Catalog, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return Catalog{}, &CatalogError{Path: name, Message: err.Error()}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	ctx := cuecontext.New()
	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return Catalog{}, &CatalogError{Path: name, Message: formatCUEError(err)}
	}
	return decodeCatalog(ctx, name, v)
}

func decodeCatalog(ctx *cue.Context, name string, data cue.Value) (Catalog, error) {
	schema := ctx.CompileString(catalogSchema, cue.Filename("catalog_schema.cue"))
	if err := schema.Err(); err != nil {
		return Catalog{}, fmt.Errorf("compile catalog schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Catalog{}, &CatalogError{Path: name, Message: formatCUEError(err)}
	}

	// Decoded through encoding/json so Option folds its alternate keys.
	raw, err := unified.MarshalJSON()
	if err != nil {
		return Catalog{}, &CatalogError{Path: name, Message: formatCUEError(err)}
	}
	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return Catalog{}, &CatalogError{Path: name, Message: err.Error()}
	}
	cat.Normalize()
	return cat, nil
}

// formatCUEError flattens CUE's multi-error into one line per problem.
func formatCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if pos := cueerrors.Positions(e); len(pos) > 0 {
			msg = fmt.Sprintf("%s (%s)", msg, pos[0])
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
