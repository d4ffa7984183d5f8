// Package api embeds the OpenAPI document of the marketplace HTTP surface.
package api

import (
	"context"
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, err
	}

	if err = doc.Validate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}
