// Package gallery defines the section model and composes sections
// into the document the view scrolls through. Sections are immutable
// descriptors collected by an explicit Builder; there is no ambient
// registry.
package gallery

import (
	"errors"
	"fmt"
)

// RenderFunc renders a section's content into a Context.
type RenderFunc func(*Context) error

// Section describes one gallery section.
type Section struct {
	// Name is the unique section identifier used in config and
	// navigation ("boxes", "align").
	Name string

	// Title is the heading shown in the document.
	Title string

	// Describe is an optional one-line description under the title.
	Describe string

	// Render produces the section content.
	Render RenderFunc
}

// Builder collects sections in order. Validation errors are gathered
// and reported by Build.
type Builder struct {
	sections []Section
	seen     map[string]bool
	errs     []error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

// Add appends a section. Duplicate names, empty names, and nil render
// funcs are rejected at Build time.
func (b *Builder) Add(s Section) *Builder {
	switch {
	case s.Name == "":
		b.errs = append(b.errs, errors.New("section with empty name"))
		return b
	case s.Render == nil:
		b.errs = append(b.errs, fmt.Errorf("section %q has no render func", s.Name))
		return b
	case b.seen[s.Name]:
		b.errs = append(b.errs, fmt.Errorf("duplicate section %q", s.Name))
		return b
	}

	b.seen[s.Name] = true
	b.sections = append(b.sections, s)
	return b
}

// Len returns the number of accepted sections.
func (b *Builder) Len() int {
	return len(b.sections)
}

// Build returns the collected sections in Add order. The returned
// slice is a copy; further Add calls do not affect it.
func (b *Builder) Build() ([]Section, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	out := make([]Section, len(b.sections))
	copy(out, b.sections)
	return out, nil
}
