package rules

import (
	"encoding/json"
	"sort"
	"strings"
)

// NormalizeTags lower-cases and trims interest tags, dropping empties
// and duplicates while preserving first-seen order. All interest
// comparisons in the engine go through this one normalization.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeTag applies the same normalization to a single tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// SharedTags returns the normalized intersection of two tag sets,
// sorted for deterministic output.
func SharedTags(a, b []string) []string {
	na := NormalizeTags(a)
	nb := NormalizeTags(b)
	if len(na) == 0 || len(nb) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(nb))
	for _, tag := range nb {
		set[tag] = struct{}{}
	}

	var shared []string
	for _, tag := range na {
		if _, ok := set[tag]; ok {
			shared = append(shared, tag)
		}
	}
	sort.Strings(shared)
	return shared
}

// Score is the affinity sort key: the number of shared tags.
func Score(shared []string) int {
	return len(shared)
}

// ParseTags decodes a stored JSON tag list. Malformed payloads yield
// nil so one corrupt record never fails a whole scan.
func ParseTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
