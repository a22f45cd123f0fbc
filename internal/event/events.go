package event

// Gallery event topics.
const (
	// TopicPaneOpened is published when an auxiliary pane opens.
	TopicPaneOpened Topic = "pane.opened"

	// TopicPaneClosed is published when an auxiliary pane closes.
	TopicPaneClosed Topic = "pane.closed"

	// TopicPaneFocused is published when pane focus moves.
	TopicPaneFocused Topic = "pane.focused"

	// TopicPaneResized is published when a pane changes size.
	TopicPaneResized Topic = "pane.resized"

	// TopicSectionActivated is published when navigation lands on a
	// gallery section.
	TopicSectionActivated Topic = "section.activated"

	// TopicConfigReloaded is published after the config watcher loads
	// a changed file.
	TopicConfigReloaded Topic = "config.reloaded"

	// TopicDisplayFallback is published when a section degrades to
	// ASCII because the terminal cannot display its glyphs.
	TopicDisplayFallback Topic = "display.fallback"
)

// PaneOpened is published when an auxiliary pane opens.
type PaneOpened struct {
	// ID identifies the pane.
	ID string

	// Title is the pane title.
	Title string
}

// EventTopic returns the event topic.
func (PaneOpened) EventTopic() Topic { return TopicPaneOpened }

// PaneClosed is published when an auxiliary pane closes.
type PaneClosed struct {
	// ID identifies the pane.
	ID string
}

// EventTopic returns the event topic.
func (PaneClosed) EventTopic() Topic { return TopicPaneClosed }

// PaneFocused is published when pane focus moves.
type PaneFocused struct {
	// ID identifies the newly focused pane.
	ID string

	// PrevID identifies the pane that lost focus, if any.
	PrevID string
}

// EventTopic returns the event topic.
func (PaneFocused) EventTopic() Topic { return TopicPaneFocused }

// PaneResized is published when a pane changes size.
type PaneResized struct {
	// ID identifies the pane.
	ID string

	// Width is the new width in cells.
	Width int

	// Height is the new height in cells.
	Height int
}

// EventTopic returns the event topic.
func (PaneResized) EventTopic() Topic { return TopicPaneResized }

// SectionActivated is published when navigation lands on a section.
type SectionActivated struct {
	// Name is the section name.
	Name string

	// Index is the section position in the gallery.
	Index int

	// Line is the first document line of the section.
	Line int
}

// EventTopic returns the event topic.
func (SectionActivated) EventTopic() Topic { return TopicSectionActivated }

// ConfigReloaded is published after the config watcher loads a
// changed file.
type ConfigReloaded struct {
	// Path is the config file path.
	Path string

	// Err is non-nil when the reload failed and the previous config
	// stayed in effect.
	Err error
}

// EventTopic returns the event topic.
func (ConfigReloaded) EventTopic() Topic { return TopicConfigReloaded }

// DisplayFallback is published when a section degrades to ASCII.
type DisplayFallback struct {
	// Section is the section name.
	Section string

	// Line is the first document line of the degraded section.
	Line int

	// Glyph is a sample rune the terminal could not display.
	Glyph rune
}

// EventTopic returns the event topic.
func (DisplayFallback) EventTopic() Topic { return TopicDisplayFallback }
