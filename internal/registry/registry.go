// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry holds the categorized map of credible domains, the
// priority weight of each category, and the target share of results each
// category should contribute to multi-source research.
//
// A Registry is built once at startup and never mutated, so it is safe to
// share between goroutines without locking.
package registry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/credible-research/pkg/types"
)

// UnknownPriority is the credibility assigned to a domain that matches no category.
const UnknownPriority = 0.3

// distributionTolerance bounds the rounding error accepted when checking
// that the target distribution sums to 1.
const distributionTolerance = 1e-6

// ErrInvalidSpec is returned (wrapped) when a Spec violates a registry invariant.
var ErrInvalidSpec = errors.New("invalid registry spec")

// Spec is the raw, unvalidated content of a registry.
type Spec struct {
	Domains      map[types.SourceCategory][]string `json:"domains" yaml:"domains"`
	Priority     map[types.SourceCategory]float64  `json:"priority" yaml:"priority"`
	Distribution map[types.SourceCategory]float64  `json:"target_distribution" yaml:"target_distribution"`
}

// Registry is an immutable, validated credible-domain registry.
type Registry struct {
	domains      map[types.SourceCategory][]string
	priority     map[types.SourceCategory]float64
	distribution map[types.SourceCategory]float64
	matcher      Matcher
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithMatcher replaces the default substring matching strategy.
func WithMatcher(m Matcher) Option {
	return func(r *Registry) {
		if m != nil {
			r.matcher = m
		}
	}
}

// New validates spec and returns a Registry holding a private copy of it.
func New(spec Spec, opts ...Option) (*Registry, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		domains:      make(map[types.SourceCategory][]string, len(types.Categories)),
		priority:     make(map[types.SourceCategory]float64, len(types.Categories)),
		distribution: make(map[types.SourceCategory]float64, len(types.Categories)),
		matcher:      SubstringMatcher{},
	}
	for _, c := range types.Categories {
		r.domains[c] = append([]string(nil), spec.Domains[c]...)
		r.priority[c] = spec.Priority[c]
		r.distribution[c] = spec.Distribution[c]
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Validate checks the registry invariants: known categories only, a
// priority in (0,1] for every category, priorities non-increasing in
// declared tier order, a distribution summing to 1, and non-empty domains
// unique within their category.
func (s Spec) Validate() error {
	for c := range s.Domains {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q in domains", ErrInvalidSpec, c)
		}
	}
	for c := range s.Priority {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q in priority", ErrInvalidSpec, c)
		}
	}
	for c := range s.Distribution {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q in target_distribution", ErrInvalidSpec, c)
		}
	}

	prev := math.Inf(1)
	var prevCat types.SourceCategory
	for _, c := range types.Categories {
		p, ok := s.Priority[c]
		if !ok {
			return fmt.Errorf("%w: missing priority for %s", ErrInvalidSpec, c)
		}
		if p <= 0 || p > 1 {
			return fmt.Errorf("%w: priority for %s is %v, want (0,1]", ErrInvalidSpec, c, p)
		}
		if p > prev {
			return fmt.Errorf("%w: priority for %s (%v) exceeds %s (%v)", ErrInvalidSpec, c, p, prevCat, prev)
		}
		prev, prevCat = p, c
	}

	var sum float64
	for c, share := range s.Distribution {
		if share < 0 {
			return fmt.Errorf("%w: negative target share %v for %s", ErrInvalidSpec, share, c)
		}
		sum += share
	}
	if math.Abs(sum-1) > distributionTolerance {
		return fmt.Errorf("%w: target distribution sums to %v, want 1", ErrInvalidSpec, sum)
	}

	for c, domains := range s.Domains {
		seen := make(map[string]bool, len(domains))
		for _, d := range domains {
			key := strings.ToLower(strings.TrimSpace(d))
			if key == "" {
				return fmt.Errorf("%w: empty domain in %s", ErrInvalidSpec, c)
			}
			if seen[key] {
				return fmt.Errorf("%w: duplicate domain %q in %s", ErrInvalidSpec, d, c)
			}
			seen[key] = true
		}
	}
	return nil
}

// DomainsFor returns the domains of the given categories, concatenated in
// declared category order with each category's domains in declared order.
// Categories not in the registry contribute nothing.
func (r *Registry) DomainsFor(categories []types.SourceCategory) []string {
	want := make(map[types.SourceCategory]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var out []string
	for _, c := range types.Categories {
		if want[c] {
			out = append(out, r.domains[c]...)
		}
	}
	return out
}

// Domains returns a copy of one category's domain list.
func (r *Registry) Domains(c types.SourceCategory) []string {
	return append([]string(nil), r.domains[c]...)
}

// CategoryOf returns the first category, in declared order, holding a
// domain that matches domain under the registry's Matcher.
func (r *Registry) CategoryOf(domain string) (types.SourceCategory, bool) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return "", false
	}
	for _, c := range types.Categories {
		for _, registered := range r.domains[c] {
			if r.matcher.Match(registered, domain) {
				return c, true
			}
		}
	}
	return "", false
}

// PriorityOf returns the priority of domain's category, or UnknownPriority.
func (r *Registry) PriorityOf(domain string) float64 {
	c, ok := r.CategoryOf(domain)
	if !ok {
		return UnknownPriority
	}
	return r.priority[c]
}

// Priority returns the weight of a category, or UnknownPriority for an unknown one.
func (r *Registry) Priority(c types.SourceCategory) float64 {
	if p, ok := r.priority[c]; ok {
		return p
	}
	return UnknownPriority
}

// TargetShare returns the fraction of a result budget allotted to c.
func (r *Registry) TargetShare(c types.SourceCategory) float64 {
	return r.distribution[c]
}

// Matcher returns the domain matching strategy in use.
func (r *Registry) Matcher() Matcher { return r.matcher }

// Spec returns a copy of the registry content.
func (r *Registry) Spec() Spec {
	s := Spec{
		Domains:      make(map[types.SourceCategory][]string, len(r.domains)),
		Priority:     make(map[types.SourceCategory]float64, len(r.priority)),
		Distribution: make(map[types.SourceCategory]float64, len(r.distribution)),
	}
	for _, c := range types.Categories {
		s.Domains[c] = r.Domains(c)
		s.Priority[c] = r.priority[c]
		s.Distribution[c] = r.distribution[c]
	}
	return s
}
