package sections

import "github.com/dshills/termgallery/internal/gallery"

// Scripted returns a status section listing the sections user scripts
// contributed. The scripted sections themselves are registered
// separately by the script engine.
func Scripted(names []string) gallery.Section {
	return gallery.Section{
		Name:     "scripted",
		Title:    "Scripted sections",
		Describe: "sections contributed by Lua scripts",
		Render: func(ctx *gallery.Context) error {
			if len(names) == 0 {
				return ctx.Note("no scripts loaded; drop .lua files in the script directory")
			}
			for i, name := range names {
				if err := ctx.Printf("%d. %s", i+1, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
