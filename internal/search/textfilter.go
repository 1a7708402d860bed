package search

import "strings"

// TextFilter is the canonical form of a free-text query parameter. Callers
// may send a field once ("artist=a b") or repeated ("artist=a&artist=b");
// both normalize to one deduplicated keyword list.
type TextFilter struct {
	keywords []string
}

// NewTextFilter splits every value on whitespace, drops empty tokens, and
// deduplicates case-insensitively while preserving first-seen order.
func NewTextFilter(values ...string) TextFilter {
	var kws []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, tok := range strings.Fields(v) {
			key := strings.ToLower(tok)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			kws = append(kws, tok)
		}
	}
	return TextFilter{keywords: kws}
}

// Keywords returns the normalized token list. Empty means the field imposes
// no constraint.
func (tf TextFilter) Keywords() []string { return tf.keywords }

func (tf TextFilter) IsZero() bool { return len(tf.keywords) == 0 }
