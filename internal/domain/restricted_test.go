package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictedFeatures_ZeroValue(t *testing.T) {
	var f RestrictedFeatures

	assert.Equal(t, 0, f.Len())
	assert.False(t, f.IsRestricted(CategoryHealth))
	assert.Empty(t, f.Categories())
	assert.Empty(t, f.Keys())

	_, ok := f.Rule(CategoryHealth)
	assert.False(t, ok)
}

func TestNewRestrictedFeatures(t *testing.T) {
	f, err := NewRestrictedFeatures(
		RestrictedRule{Category: CategoryMetadata, Key: "admin-key", Value: "secret"},
		RestrictedRule{Category: CategoryHealth, Key: "probe", Value: "1"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, f.Len())
	assert.True(t, f.IsRestricted(CategoryHealth))
	assert.False(t, f.IsRestricted(CategoryInference))
	assert.Equal(t, []RestrictedCategory{CategoryHealth, CategoryMetadata}, f.Categories())

	rule, ok := f.Rule(CategoryMetadata)
	require.True(t, ok)
	assert.Equal(t, "admin-key", rule.Key)
	assert.Equal(t, "secret", rule.Value)
}

func TestNewRestrictedFeatures_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules []RestrictedRule
		check func(error) bool
	}{
		{
			name: "duplicate category",
			rules: []RestrictedRule{
				{Category: CategoryHealth, Key: "a", Value: "1"},
				{Category: CategoryHealth, Key: "b", Value: "2"},
			},
			check: IsAlreadyExists,
		},
		{
			name:  "empty key",
			rules: []RestrictedRule{{Category: CategoryHealth, Key: " "}},
			check: IsInvalidArgument,
		},
		{
			name:  "unknown category",
			rules: []RestrictedRule{{Category: "bogus", Key: "a"}},
			check: IsInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewRestrictedFeatures(tt.rules...)
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.Equal(t, 0, f.Len())
		})
	}
}

func TestRestrictedFeatures_CategoriesIsACopy(t *testing.T) {
	f, err := NewRestrictedFeatures(RestrictedRule{Category: CategoryTrace, Key: "k"})
	require.NoError(t, err)

	cats := f.Categories()
	cats[0] = CategoryLogging

	assert.True(t, f.IsRestricted(CategoryTrace))
	assert.False(t, f.IsRestricted(CategoryLogging))
}

func TestParseRestrictedRules(t *testing.T) {
	rules, err := ParseRestrictedRules("health, metadata:admin-key=secret")
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, CategoryHealth, rules[0].Category)
	assert.Equal(t, CategoryMetadata, rules[1].Category)
	assert.Equal(t, "admin-key", rules[1].Key)
	assert.Equal(t, "secret", rules[1].Value)
}

func TestParseRestrictedRules_Errors(t *testing.T) {
	for _, raw := range []string{
		"health",
		"health:novalue",
		"health:=value",
		"unknown:k=v",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseRestrictedRules(raw)
			require.Error(t, err)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}

func TestParseRestrictedCategory(t *testing.T) {
	cat, err := ParseRestrictedCategory(" Model-Repository ")
	require.NoError(t, err)
	assert.Equal(t, CategoryModelRepository, cat)
}

func TestRestrictedFeatures_Keys(t *testing.T) {
	f, err := NewRestrictedFeatures(
		RestrictedRule{Category: CategoryMetadata, Key: "x-probe", Value: "1"},
		RestrictedRule{Category: CategoryHealth, Key: "x-probe", Value: "1"},
		RestrictedRule{Category: CategoryInference, Key: "admin-key", Value: "s"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"admin-key", "x-probe"}, f.Keys())
}
