package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/textlab/spanish-ner/lib"
	"gitlab.com/textlab/spanish-ner/lib/blocklist"
)

func TestNormalizeDeduplicates(t *testing.T) {
	raw := []lib.Entity{
		{Tag: lib.TagPerson, Score: 0.99, Label: "Juan"},
		{Tag: lib.TagLocation, Score: 0.98, Label: "Madrid"},
		{Tag: lib.TagPerson, Score: 0.90, Label: "juan"},
		{Tag: lib.TagOrganization, Score: 0.85, Label: "Google España"},
		{Tag: lib.TagLocation, Score: 0.99, Label: "Madrid"},
	}

	out := Normalizer{}.Normalize(raw)

	// first occurrence wins, in first-seen order
	assert.Equal(t, []lib.Entity{
		{Tag: lib.TagPerson, Score: 0.99, Label: "Juan"},
		{Tag: lib.TagLocation, Score: 0.98, Label: "Madrid"},
		{Tag: lib.TagOrganization, Score: 0.85, Label: "Google España"},
	}, out)
}

func TestNormalizeSameLabelDifferentTag(t *testing.T) {
	raw := []lib.Entity{
		{Tag: lib.TagOrganization, Score: 0.9, Label: "Madrid"},
		{Tag: lib.TagLocation, Score: 0.9, Label: "Madrid"},
	}

	out := Normalizer{}.Normalize(raw)
	assert.Len(t, out, 2)
}

func TestNormalizeMinScore(t *testing.T) {
	raw := []lib.Entity{
		{Tag: lib.TagPerson, Score: 0.49, Label: "Juan"},
		{Tag: lib.TagLocation, Score: 0.5, Label: "Madrid"},
		{Tag: lib.TagPerson, Score: 0.95, Label: "Juan"},
	}

	out := Normalizer{MinScore: 0.5}.Normalize(raw)

	// the low score Juan must not shadow the later one that passes
	assert.Equal(t, []lib.Entity{
		{Tag: lib.TagLocation, Score: 0.5, Label: "Madrid"},
		{Tag: lib.TagPerson, Score: 0.95, Label: "Juan"},
	}, out)
}

func TestNormalizeCleansLabels(t *testing.T) {
	raw := []lib.Entity{
		{Tag: lib.TagPerson, Score: 0.9, Label: "  Juan "},
		{Tag: lib.TagPerson, Score: 0.9, Label: "   "},
	}

	out := Normalizer{}.Normalize(raw)

	assert.Equal(t, []lib.Entity{
		{Tag: lib.TagPerson, Score: 0.9, Label: "Juan"},
	}, out)
}

func TestNormalizeBlocklist(t *testing.T) {
	bl := &blocklist.Blocklist{
		CaseSensitive:   map[string]bool{"IT": true},
		CaseInsensitive: map[string]bool{"madrid": true},
	}

	raw := []lib.Entity{
		{Tag: lib.TagOrganization, Score: 0.9, Label: "IT"},
		{Tag: lib.TagMisc, Score: 0.9, Label: "it"},
		{Tag: lib.TagLocation, Score: 0.9, Label: "Madrid"},
		{Tag: lib.TagPerson, Score: 0.9, Label: "Juan"},
	}

	out := Normalizer{Blocklist: bl}.Normalize(raw)

	assert.Equal(t, []lib.Entity{
		{Tag: lib.TagMisc, Score: 0.9, Label: "it"},
		{Tag: lib.TagPerson, Score: 0.9, Label: "Juan"},
	}, out)
}

func TestNormalizeEmpty(t *testing.T) {
	out := Normalizer{MinScore: 0.5}.Normalize(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestNormalizeDeterministic(t *testing.T) {
	raw := []lib.Entity{
		{Tag: lib.TagPerson, Score: 0.99, Label: "Juan"},
		{Tag: lib.TagLocation, Score: 0.98, Label: "Madrid"},
		{Tag: lib.TagOrganization, Score: 0.85, Label: "Google España"},
		{Tag: lib.TagLocation, Score: 0.97, Label: "madrid"},
	}

	first := Normalizer{MinScore: 0.5}.Normalize(raw)
	second := Normalizer{MinScore: 0.5}.Normalize(raw)
	assert.Equal(t, first, second)
}
