// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"strings"
)

// Matcher decides whether a result host belongs to a registered domain entry.
// Registered entries may carry a path ("openai.com/research"); host is a
// lowercased hostname with any leading "www." removed.
type Matcher interface {
	Match(registered, host string) bool
}

// SubstringMatcher matches when either string contains the other, ignoring
// case. It is approximate: "cam.ac.uk" also matches "webcam.ac.uk".
type SubstringMatcher struct{}

// Match implements Matcher.
func (SubstringMatcher) Match(registered, host string) bool {
	registered = strings.ToLower(registered)
	host = strings.ToLower(host)
	if registered == "" || host == "" {
		return false
	}
	return strings.Contains(host, registered) || strings.Contains(registered, host)
}

// SuffixMatcher matches when host equals the host part of the registered
// entry or is a subdomain of it.
type SuffixMatcher struct{}

// Match implements Matcher.
func (SuffixMatcher) Match(registered, host string) bool {
	base := strings.ToLower(registered)
	if i := strings.IndexByte(base, '/'); i >= 0 {
		base = base[:i]
	}
	host = strings.ToLower(host)
	if base == "" || host == "" {
		return false
	}
	return host == base || strings.HasSuffix(host, "."+base)
}

// MatcherByName resolves a configured matcher name. Empty selects substring.
func MatcherByName(name string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "substring":
		return SubstringMatcher{}, nil
	case "suffix":
		return SuffixMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown domain matcher %q: use substring or suffix", name)
	}
}
