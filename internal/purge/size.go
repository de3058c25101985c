package purge

// DictionarySize returns the byte footprint of a dictionary: the sum of
// ValueSize over its values.
func DictionarySize(d Dictionary) int64 {
	var n int64
	for _, v := range d.Values() {
		n += ValueSize(v)
	}
	return n
}

// ValueSize returns the serialized length of a dictionary value.
//
// Strings and byte slices count their bytes. Lists and maps count the sum of
// their elements. Values without a length (numbers, booleans, nil) count 0.
func ValueSize(v any) int64 {
	switch x := v.(type) {
	case string:
		return int64(len(x))
	case []byte:
		return int64(len(x))
	case []string:
		var n int64
		for _, s := range x {
			n += int64(len(s))
		}
		return n
	case []any:
		var n int64
		for _, e := range x {
			n += ValueSize(e)
		}
		return n
	case map[string]any:
		var n int64
		for _, e := range x {
			n += ValueSize(e)
		}
		return n
	default:
		return 0
	}
}
