// Package openapi loads and validates the service's own OpenAPI
// document (api/openapi.yaml) and checks incoming requests against its
// declared schemas before a handler ever decodes the body.
package openapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// Document is the loaded, schema-validated document plus the router used
// to match an *http.Request back to its operation.
type Document struct {
	router routers.Router
}

// Load reads and validates path, failing fast on a malformed document
// rather than at the first request that hits a broken schema.
func Load(path string) (*Document, error) {
	doc, err := openapi3.NewLoader().LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building openapi router: %w", err)
	}
	return &Document{router: router}, nil
}

// ValidateRequest checks r's method, path, and body against the matching
// operation's schema. The caller must leave r.Body re-readable afterward;
// ValidateRequest only reads what kin-openapi hands it, it does not
// consume or replace r.Body itself.
func (d *Document) ValidateRequest(r *http.Request) error {
	route, pathParams, err := d.router.FindRoute(r)
	if err != nil {
		return fmt.Errorf("no matching openapi operation: %w", err)
	}
	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
	}
	return openapi3filter.ValidateRequest(r.Context(), input)
}
