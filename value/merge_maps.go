package value

// MergeMaps merges several object values into one.
//
// Later values override earlier ones when keys overlap. The merge is
// shallow: a key present in two sources takes the later value whole, even
// when both values are objects. Values that are not objects are skipped.
//
// This is how several data files given on the command line combine into
// one context.
func MergeMaps(sources ...Value) Value {
	merged := make(map[string]Value)
	for _, src := range sources {
		m, ok := src.AsMap()
		if !ok {
			continue
		}
		for key, val := range m {
			merged[key] = val
		}
	}
	return FromMap(merged)
}
