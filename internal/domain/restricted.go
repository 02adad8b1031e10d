package domain

import (
	"fmt"
	"sort"
	"strings"
)

// RestrictedCategory names a group of frontend endpoints that can be
// restricted to callers presenting a specific header.
type RestrictedCategory string

// Restrictable endpoint groups.
const (
	CategoryHealth          RestrictedCategory = "health"
	CategoryMetadata        RestrictedCategory = "metadata"
	CategoryInference       RestrictedCategory = "inference"
	CategorySharedMemory    RestrictedCategory = "shared-memory"
	CategoryModelConfig     RestrictedCategory = "model-config"
	CategoryModelRepository RestrictedCategory = "model-repository"
	CategoryStatistics      RestrictedCategory = "statistics"
	CategoryTrace           RestrictedCategory = "trace"
	CategoryLogging         RestrictedCategory = "logging"
)

var knownCategories = map[RestrictedCategory]struct{}{
	CategoryHealth:          {},
	CategoryMetadata:        {},
	CategoryInference:       {},
	CategorySharedMemory:    {},
	CategoryModelConfig:     {},
	CategoryModelRepository: {},
	CategoryStatistics:      {},
	CategoryTrace:           {},
	CategoryLogging:         {},
}

// ParseRestrictedCategory validates a category name.
func ParseRestrictedCategory(name string) (RestrictedCategory, error) {
	cat := RestrictedCategory(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownCategories[cat]; !ok {
		return "", NewInvalidArgumentError(fmt.Sprintf("unknown restricted category %q", name))
	}

	return cat, nil
}

// RestrictedRule requires header Key to equal Value for Category.
type RestrictedRule struct {
	Category RestrictedCategory
	Key      string
	Value    string
}

// RestrictedFeatures is an immutable set of restriction rules, built once and
// passed by value. The zero value restricts nothing.
type RestrictedFeatures struct {
	rules map[RestrictedCategory]RestrictedRule
}

// NewRestrictedFeatures builds the set. Each category may appear once.
func NewRestrictedFeatures(rules ...RestrictedRule) (RestrictedFeatures, error) {
	set := make(map[RestrictedCategory]RestrictedRule, len(rules))

	for _, r := range rules {
		if _, ok := knownCategories[r.Category]; !ok {
			return RestrictedFeatures{}, NewInvalidArgumentError(
				fmt.Sprintf("unknown restricted category %q", r.Category))
		}

		if strings.TrimSpace(r.Key) == "" {
			return RestrictedFeatures{}, NewInvalidArgumentError(
				fmt.Sprintf("restricted category %q requires a header key", r.Category))
		}

		if _, dup := set[r.Category]; dup {
			return RestrictedFeatures{}, NewAlreadyExistsError(
				fmt.Sprintf("restricted category %q specified more than once", r.Category))
		}

		set[r.Category] = r
	}

	return RestrictedFeatures{rules: set}, nil
}

// ParseRestrictedRules parses "cat1,cat2:key=value" into one rule per category.
func ParseRestrictedRules(raw string) ([]RestrictedRule, error) {
	cats, header, ok := strings.Cut(raw, ":")
	if !ok {
		return nil, NewInvalidArgumentError(
			fmt.Sprintf("restricted rule %q: expected <categories>:<key>=<value>", raw))
	}

	key, value, ok := strings.Cut(header, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return nil, NewInvalidArgumentError(
			fmt.Sprintf("restricted rule %q: expected <key>=<value> after ':'", raw))
	}

	var rules []RestrictedRule

	for _, name := range strings.Split(cats, ",") {
		cat, err := ParseRestrictedCategory(name)
		if err != nil {
			return nil, err
		}

		rules = append(rules, RestrictedRule{
			Category: cat,
			Key:      strings.TrimSpace(key),
			Value:    strings.TrimSpace(value),
		})
	}

	return rules, nil
}

// IsRestricted reports whether cat has a rule.
func (f RestrictedFeatures) IsRestricted(cat RestrictedCategory) bool {
	_, ok := f.rules[cat]
	return ok
}

// Rule returns the rule for cat.
func (f RestrictedFeatures) Rule(cat RestrictedCategory) (RestrictedRule, bool) {
	r, ok := f.rules[cat]
	return r, ok
}

// Categories returns the restricted categories in sorted order.
func (f RestrictedFeatures) Categories() []RestrictedCategory {
	out := make([]RestrictedCategory, 0, len(f.rules))
	for cat := range f.rules {
		out = append(out, cat)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Len returns the number of rules.
func (f RestrictedFeatures) Len() int {
	return len(f.rules)
}

// Keys returns the distinct header keys the rules expect, sorted.
func (f RestrictedFeatures) Keys() []string {
	seen := make(map[string]struct{}, len(f.rules))
	out := make([]string, 0, len(f.rules))

	for _, r := range f.rules {
		if _, ok := seen[r.Key]; ok {
			continue
		}

		seen[r.Key] = struct{}{}
		out = append(out, r.Key)
	}

	sort.Strings(out)

	return out
}
