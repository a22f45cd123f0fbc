// Package translit converts Unicode box-drawing glyphs to plain ASCII.
//
// Box-drawing characters render with inconsistent cell widths on some
// fonts, corrupting table alignment. Substituting visually similar
// ASCII characters keeps alignment at the cost of fidelity. The mapping
// is a fixed, ordered rule table: the first matching rule wins and
// unmatched runes pass through unchanged.
package translit

import "strings"

// rangeRules covers the single-line portion of the Box Drawing block,
// [0x2500, 0x2550). Half-open ranges, evaluated in order.
var rangeRules = [...]struct {
	lo, hi rune
	out    rune
}{
	{0x2500, 0x2502, '-'}, // light/heavy horizontal
	{0x2502, 0x2504, '|'}, // light/heavy vertical
	{0x2504, 0x2506, '-'}, // dashed horizontal
	{0x2506, 0x2508, '|'}, // dashed vertical
	{0x2508, 0x250A, '-'}, // dotted horizontal
	{0x250A, 0x250C, '|'}, // dotted vertical
	{0x250C, 0x251C, '-'}, // corners
	{0x251C, 0x2524, '|'}, // left tees
	{0x2524, 0x252C, '|'}, // right tees
	{0x252C, 0x2534, '-'}, // top tees
	{0x2534, 0x253C, '-'}, // bottom tees
	{0x253C, 0x254C, '+'}, // crosses
	{0x254C, 0x254E, '-'}, // two-dash horizontal
	{0x254E, 0x2550, '|'}, // two-dash vertical
}

// setRules covers the double-line, mixed and diagonal glyphs.
// The ║╓╖╙╜ group maps to '-' to match the upstream fallback table.
var setRules = [...]struct {
	glyphs string
	out    rune
}{
	{"═╒╔╕╗╘╚╛╝", '='},
	{"║╓╖╙╜", '-'},
	{"╞╠╡╣╤╦╧╩╪╬", '='},
	{"╟╢╥╨╫", '-'},
	{"╭╯╱", '/'},
	{"╮╰╲", '\\'},
	{"╳", 'X'},
}

// Half-line and tick glyphs alternate horizontal/vertical shapes by
// code point parity.
const (
	parityLo rune = 0x2574
	parityHi rune = 0x2580
)

// Classify returns the ASCII replacement for a box-drawing rune, or r
// unchanged when no rule matches. Pure and total.
func Classify(r rune) rune {
	for _, rr := range rangeRules {
		if r >= rr.lo && r < rr.hi {
			return rr.out
		}
	}
	for _, sr := range setRules {
		if strings.ContainsRune(sr.glyphs, r) {
			return sr.out
		}
	}
	if r >= parityLo && r < parityHi {
		if r&1 == 0 {
			return '-'
		}
		return '|'
	}
	return r
}

// Transliterate maps every rune of s through Classify. The result has
// the same rune count and positions as s; line separators and other
// unmatched runes are copied through, so multi-line text is safe.
func Transliterate(s string) string {
	return strings.Map(Classify, s)
}

// ForDisplay returns s unchanged when every rune satisfies canDisplay,
// or the transliterated fallback otherwise. The boolean reports whether
// the fallback was chosen.
//
// A nil predicate means the render surface cannot be probed. ForDisplay
// then returns s unchanged and the caller must guard its own render
// attempt, discarding partial output and substituting Transliterate(s)
// on failure.
func ForDisplay(s string, canDisplay func(rune) bool) (string, bool) {
	if canDisplay == nil {
		return s, false
	}
	for _, r := range s {
		if !canDisplay(r) {
			return Transliterate(s), true
		}
	}
	return s, false
}
