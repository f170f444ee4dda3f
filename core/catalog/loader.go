// Package catalog loads and validates product catalogs.
// The core treats a loaded catalog as a read-only snapshot per session.
package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

//go:embed catalogs/*.hcl
var builtin embed.FS

// DefaultProduct is the catalog served when no path is configured
const DefaultProduct = "business_cards"

// Format is a catalog file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatFor picks a format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", errors.Newf(errors.TypeConfig, "unsupported catalog file %q (want .json or .hcl)", path)
}

// Load reads and validates a catalog file
func Load(path string) (*types.Catalog, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("catalog", path)
		}
		return nil, errors.Config("failed to read catalog", err)
	}
	cat, err := Parse(data, path, format)
	if err != nil {
		return nil, err
	}
	if err := Check(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Parse decodes a catalog without validating it
func Parse(data []byte, filename string, format Format) (*types.Catalog, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatHCL:
		return parseHCL(data, filename)
	}
	return nil, errors.Newf(errors.TypeConfig, "unknown catalog format %q", format)
}

// Builtin loads an embedded catalog by product name
func Builtin(product string) (*types.Catalog, error) {
	name := "catalogs/" + product + ".hcl"
	data, err := builtin.ReadFile(name)
	if err != nil {
		return nil, errors.NotFound("catalog", product)
	}
	cat, err := Parse(data, name, FormatHCL)
	if err != nil {
		return nil, err
	}
	if err := Check(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadOrDefault loads path, or the default builtin catalog when path is empty
func LoadOrDefault(path string) (*types.Catalog, error) {
	if path == "" {
		return Builtin(DefaultProduct)
	}
	return Load(path)
}

func parseJSON(data []byte) (*types.Catalog, error) {
	var cat types.Catalog
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cat); err != nil {
		return nil, errors.Config("failed to parse catalog JSON", err)
	}
	return &cat, nil
}

func parseHCL(data []byte, filename string) (*types.Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Config("failed to parse catalog HCL", diags)
	}

	var cat types.Catalog
	if diags := gohcl.DecodeBody(file.Body, nil, &cat); diags.HasErrors() {
		return nil, errors.Config("failed to decode catalog HCL", diags)
	}
	return &cat, nil
}
