package sections

import "github.com/dshills/termgallery/internal/gallery"

// DefaultSections returns the built-in sections in display order.
func DefaultSections() []gallery.Section {
	return []gallery.Section{
		Align(),
		Boxes(),
		Inspect(),
		Swatches(),
		Signs(),
		Cursors(),
		Panes(),
	}
}

// ByName returns the built-in section with the given name.
func ByName(name string) (gallery.Section, bool) {
	for _, s := range DefaultSections() {
		if s.Name == name {
			return s, true
		}
	}
	return gallery.Section{}, false
}
