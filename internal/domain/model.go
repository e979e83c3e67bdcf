package domain

import (
	"fmt"
	"strings"
)

// ModelSpec identifies a model under test as a (vendor, name) pair.
// The composite identifier "vendor/name" is used as the stable key in
// output artifacts, score records, and leaderboard rows.
type ModelSpec struct {
	// Vendor is the provider namespace, e.g. "openai" or "anthropic".
	Vendor string `yaml:"vendor" json:"vendor" validate:"required,lowercase,alphanum"`

	// Name is the vendor-scoped model name, e.g. "gpt-4o-mini".
	Name string `yaml:"name" json:"name" validate:"required"`
}

// ID returns the composite "vendor/name" identifier.
func (m ModelSpec) ID() string { return m.Vendor + "/" + m.Name }

// String implements fmt.Stringer for logging.
func (m ModelSpec) String() string { return m.ID() }

// ParseModelSpec splits a composite "vendor/name" identifier.
// The name segment may itself contain slashes (some gateways namespace
// model names), so only the first separator is significant.
func ParseModelSpec(id string) (ModelSpec, error) {
	vendor, name, ok := strings.Cut(id, "/")
	if !ok || vendor == "" || name == "" {
		return ModelSpec{}, fmt.Errorf("%w: %q (want vendor/name)", ErrInvalidModelSpec, id)
	}
	return ModelSpec{Vendor: vendor, Name: name}, nil
}
