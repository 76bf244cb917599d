// Package palette assigns colors to domain names for the track renderer.
//
// An Assignment is session state: colors are handed out lazily as domains
// are first selected, survive reselection, and are never evicted. The
// strategy for picking a fresh color is pluggable: either a fixed palette
// walked in assignment order, or random colors meant to be overridden.
package palette

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"time"
)

// Tab10 is the classic 10-color categorical palette used by the fixed policy.
var Tab10 = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// Policy picks a color for a domain seen for the first time.
// ordinal is the number of domains already assigned.
type Policy interface {
	Pick(domain string, ordinal int) string
}

// FixedPolicy walks the Tab10 palette in assignment order, wrapping
// around after ten domains.
type FixedPolicy struct{}

// Pick returns the palette color for the given ordinal.
func (FixedPolicy) Pick(_ string, ordinal int) string {
	return Tab10[ordinal%len(Tab10)]
}

// RandomPolicy picks random colors. Components are kept out of the
// extremes so shapes stay visible on a white background.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a RandomPolicy seeded from the clock.
func NewRandomPolicy() *RandomPolicy {
	return NewSeededRandomPolicy(time.Now().UnixNano())
}

// NewSeededRandomPolicy returns a RandomPolicy with a fixed seed.
func NewSeededRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a random hex color.
func (p *RandomPolicy) Pick(_ string, _ int) string {
	component := func() int { return 32 + p.rng.Intn(192) }
	return fmt.Sprintf("#%02x%02x%02x", component(), component(), component())
}

// ParsePolicy parses a policy name from config or flags.
// Accepts "fixed" and "random".
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "fixed":
		return FixedPolicy{}, nil
	case "random":
		return NewRandomPolicy(), nil
	default:
		return nil, fmt.Errorf("invalid palette policy: %q (expected fixed or random)", name)
	}
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether s is a #rrggbb hex color.
func ValidColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// Assignment is the per-session mapping from domain name to color.
type Assignment struct {
	policy Policy
	colors map[string]string
}

// NewAssignment creates an empty assignment backed by the given policy.
func NewAssignment(policy Policy) *Assignment {
	return &Assignment{
		policy: policy,
		colors: make(map[string]string),
	}
}

// Ensure assigns a color to every domain that does not have one yet.
// Existing entries are left untouched.
func (a *Assignment) Ensure(domains []string) {
	for _, domain := range domains {
		if _, ok := a.colors[domain]; !ok {
			a.colors[domain] = a.policy.Pick(domain, len(a.colors))
		}
	}
}

// Set overrides the color for a domain, creating the entry if needed.
// Returns an error for values that are not #rrggbb hex colors.
func (a *Assignment) Set(domain, color string) error {
	if !ValidColor(color) {
		return fmt.Errorf("invalid color %q for domain %q (expected #rrggbb)", color, domain)
	}
	a.colors[domain] = color
	return nil
}

// Clone returns a copy of the assignment sharing the policy but not the
// color map. Renders that must not see concurrent writes work on a clone.
func (a *Assignment) Clone() *Assignment {
	colors := make(map[string]string, len(a.colors))
	for domain, color := range a.colors {
		colors[domain] = color
	}
	return &Assignment{policy: a.policy, colors: colors}
}

// Get returns the color assigned to a domain.
func (a *Assignment) Get(domain string) (string, bool) {
	color, ok := a.colors[domain]
	return color, ok
}

// Len returns the number of assigned domains.
func (a *Assignment) Len() int {
	return len(a.colors)
}

// Domains returns the assigned domain names, sorted.
func (a *Assignment) Domains() []string {
	names := make([]string, 0, len(a.colors))
	for name := range a.colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
