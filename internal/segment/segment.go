// Package segment splits raw text into discrete display units.
//
// The same splitter runs on both sides of the relay: the server segments
// upstream fragments before they go on the wire, and the playback simulator
// segments a complete unary response before replaying it.
package segment

// delimiter reports whether r closes the unit currently being accumulated.
// The delimiter itself stays glued to the unit it closes.
func delimiter(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '.', ',', '!', '?', ':', ';':
		return true
	}
	return false
}

// Split segments text into ordered display units. Whitespace and sentence
// punctuation close the accumulating unit and are appended to it; a delimiter
// arriving with nothing accumulated becomes a unit of its own. Concatenating
// the returned units in order reproduces text exactly.
func Split(text string) []string {
	var units []string
	var current []rune

	for _, r := range text {
		if delimiter(r) {
			current = append(current, r)
			units = append(units, string(current))
			current = current[:0]
			continue
		}
		current = append(current, r)
	}

	if len(current) > 0 {
		units = append(units, string(current))
	}

	return units
}
