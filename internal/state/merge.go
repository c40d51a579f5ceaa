package state

// Merge applies update on top of base and returns base.
//
// For every key in update: when both sides hold a mapping the two mappings are
// merged recursively; in every other case (scalar, sequence, null, a key base
// lacks, or a kind mismatch) the update value replaces the base value
// wholesale. Sequences are never concatenated. Keys update does not mention
// are left untouched.
//
// base is modified in place. Values copied from update are deep-copied, so the
// result never shares structure with the fragment. A nil base is treated as
// empty.
func Merge(base, update map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(update))
	}
	for key, value := range update {
		if patch, ok := asMapping(value); ok {
			if existing, ok := asMapping(base[key]); ok {
				base[key] = Merge(existing, patch)
				continue
			}
		}
		base[key] = cloneValue(value)
	}
	return base
}
