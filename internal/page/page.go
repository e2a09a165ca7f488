// Package page renders the single HTML page the web responder returns for
// the root path and for every error.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// Data is passed to the index template
type Data struct {
	StaticPrefix string
}

// Page is a template rendered once at startup
type Page struct {
	name string
	body []byte
}

// Load parses and renders the template at path. A missing or broken
// template is an error.
func Load(path string, data Data) (*Page, error) {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", filepath.Base(path), err)
	}

	return &Page{
		name: filepath.Base(path),
		body: buf.Bytes(),
	}, nil
}

// Name returns the template file name
func (p *Page) Name() string {
	return p.name
}

// Body returns the rendered HTML. Callers must not modify it.
func (p *Page) Body() []byte {
	return p.body
}
