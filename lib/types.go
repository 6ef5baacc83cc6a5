package lib

import (
	"fmt"
	"strconv"
	"strings"
)

// The closed output tag vocabulary. Backend-native label sets are mapped
// into these five values before an entity leaves the adapter layer.
const (
	TagPerson       = "PERSON"
	TagLocation     = "LOCATION"
	TagOrganization = "ORGANIZATION"
	TagPlace        = "PLACE"
	TagMisc         = "MISC"
)

// Entity is a single extraction result. Entities are value objects: they are
// created once per inference call and never mutated, only filtered or
// deduplicated into a result collection.
type Entity struct {
	Tag   string `json:"tag"`
	Score Score  `json:"score"`
	Label string `json:"label"`
}

// Score is a backend confidence value. Its semantics are backend-dependent:
// the MITIE server reports a real probability, while the spaCy sidecar
// reports nothing and the adapter substitutes a fixed constant. Scores are
// serialized as 4-decimal strings, e.g. "0.9500".
type Score float64

func (s Score) String() string {
	return fmt.Sprintf("%.4f", float64(s))
}

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

func (s *Score) UnmarshalJSON(b []byte) error {
	str := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %v", str, err)
	}
	*s = Score(f)
	return nil
}

// Snippet is a block of input text with its rune offset in the source
// document. Snippet readers produce them and recognisers consume them.
type Snippet struct {
	Text   string
	Offset uint32
}

// BackendInfo describes a configured backend and its current availability.
type BackendInfo struct {
	Name      string `json:"name"`
	Model     string `json:"model,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

var tagMapping = map[string]string{
	"PER":          TagPerson,
	"PERSON":       TagPerson,
	"LOC":          TagLocation,
	"LOCATION":     TagLocation,
	"GPE":          TagLocation,
	"ORG":          TagOrganization,
	"ORGANIZATION": TagOrganization,
	"MISC":         TagMisc,
	"NORP":         TagMisc,
	"FACILITY":     TagPlace,
	"FAC":          TagPlace,
	"PLACE":        TagPlace,
	"EVENT":        TagMisc,
	"WORK_OF_ART":  TagMisc,
	"LAW":          TagMisc,
	"LANGUAGE":     TagMisc,
	"DATE":         TagMisc,
	"TIME":         TagMisc,
	"PERCENT":      TagMisc,
	"MONEY":        TagMisc,
	"QUANTITY":     TagMisc,
	"ORDINAL":      TagMisc,
	"CARDINAL":     TagMisc,
}

// NormalizeTag maps a backend-native entity label to the output vocabulary.
// IOB prefixes ("B-PER", "I-LOC") are stripped first. Unknown labels map
// to MISC.
func NormalizeTag(tag string) string {
	clean := strings.TrimPrefix(strings.TrimPrefix(tag, "B-"), "I-")
	if mapped, ok := tagMapping[strings.ToUpper(clean)]; ok {
		return mapped
	}
	return TagMisc
}
