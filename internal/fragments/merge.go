package fragments

import "github.com/conduit-lang/configkeys/internal/rawtree"

// Merge combines the stored configuration with freshly consolidated
// templates. Neither input is modified.
//
// With PolicyExisting the result starts from fresh; every stored key is then
// laid over it. When both sides hold a mapping the stored entries update the
// template mapping one level deep, so template keys the store lacks are
// added while stored values win. Otherwise the stored value replaces the
// template value.
//
// With PolicyNew the result starts from existing and every template key
// replaces the stored one at the top level.
func Merge(existing, fresh *rawtree.OrderedMap, policy Policy) *rawtree.OrderedMap {
	if policy == PolicyNew {
		merged := existing.Clone()
		merged.Update(fresh.Clone())
		return merged
	}

	merged := fresh.Clone()
	for _, e := range existing.Entries() {
		cur, ok := merged.Get(e.Key)
		if ok && cur.Map() != nil && e.Value.Map() != nil {
			cur.Map().Update(e.Value.Map().Clone())
			continue
		}
		merged.Set(e.Key, e.Value.Clone())
	}
	return merged
}
