/*
 * Copyright 2023 Textlab
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package results

import (
	"strings"

	"gitlab.com/textlab/spanish-ner/lib"
	"gitlab.com/textlab/spanish-ner/lib/blocklist"
	"gitlab.com/textlab/spanish-ner/lib/text"
)

// Normalizer turns the raw entity sequence from a backend into the output
// collection: entities below MinScore are dropped, blocklisted labels are
// dropped, and duplicates sharing a (tag, label) pair are collapsed to their
// first occurrence. Label comparison is case-insensitive on the cleaned
// label. Output order is first-seen order.
type Normalizer struct {
	MinScore  float64
	Blocklist *blocklist.Blocklist
}

type dedupKey struct {
	tag   string
	label string
}

// Normalize never fails; it always returns a (possibly empty) collection.
func (n Normalizer) Normalize(raw []lib.Entity) []lib.Entity {
	seen := make(map[dedupKey]struct{}, len(raw))
	out := make([]lib.Entity, 0, len(raw))

	for _, entity := range raw {
		if float64(entity.Score) < n.MinScore {
			continue
		}

		label := text.CleanLabel(entity.Label)
		if label == "" {
			continue
		}

		if n.Blocklist != nil && !n.Blocklist.Allowed(label) {
			continue
		}

		key := dedupKey{tag: entity.Tag, label: strings.ToLower(label)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		entity.Label = label
		out = append(out, entity)
	}

	return out
}
