package upload

// MediaTypeFilter accepts declared media types from a fixed set.
// Matching is exact and case sensitive; no parameters or aliases are recognised.
type MediaTypeFilter struct {
	accepted map[string]struct{}
}

// NewMediaTypeFilter creates a filter accepting exactly the given types
func NewMediaTypeFilter(types []string) MediaTypeFilter {
	accepted := make(map[string]struct{}, len(types))
	for _, t := range types {
		accepted[t] = struct{}{}
	}
	return MediaTypeFilter{accepted: accepted}
}

// Accept reports whether files declared as mediaType may be stored
func (f MediaTypeFilter) Accept(mediaType string) bool {
	if mediaType == "" {
		return false
	}
	_, ok := f.accepted[mediaType]
	return ok
}
