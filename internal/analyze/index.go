package analyze

import "sort"

// DependencyIndex groups read/write indices by the property key they
// touch, built on demand from a FactSet (spec §3.5).
type DependencyIndex struct {
	Readers map[PropertyKey][]ReadIndex
	Writers map[PropertyKey][]WriteIndex
}

// BuildIndex derives a DependencyIndex from fs. Grouping order within
// each key's slice follows extraction order, which is itself
// deterministic (table iteration is insertion order throughout).
func BuildIndex(fs *FactSet) *DependencyIndex {
	idx := &DependencyIndex{
		Readers: make(map[PropertyKey][]ReadIndex),
		Writers: make(map[PropertyKey][]WriteIndex),
	}
	for i, r := range fs.Reads {
		k := PropertyKey{EntityType: r.EntityType, Property: r.Property}
		idx.Readers[k] = append(idx.Readers[k], ReadIndex(i))
	}
	for i, w := range fs.Writes {
		k := PropertyKey{EntityType: w.EntityType, Property: w.Property}
		idx.Writers[k] = append(idx.Writers[k], WriteIndex(i))
	}
	return idx
}

// sortedKeys returns m's keys in a stable (EntityType, Property) order.
// The five checks must visit keys deterministically: Go map iteration is
// not, and while the final diagnostic ordering pass (diag.Bag.Sort)
// re-sorts by position, two diagnostics that land on the same span would
// otherwise tie-break on report order.
func sortedKeys[V any](m map[PropertyKey]V) []PropertyKey {
	keys := make([]PropertyKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].EntityType != keys[j].EntityType {
			return keys[i].EntityType < keys[j].EntityType
		}
		return keys[i].Property < keys[j].Property
	})
	return keys
}
