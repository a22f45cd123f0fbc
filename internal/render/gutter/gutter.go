// Package gutter renders the column to the left of the gallery
// document: line numbers plus a sign column for section marks and
// fallback warnings.
package gutter

import (
	"strconv"
	"sync"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// LineNumberWidth is the fixed width for line numbers (0 = auto).
	LineNumberWidth int

	// MinLineNumberWidth is the minimum width for auto-calculated widths.
	MinLineNumberWidth int

	// ShowSigns enables the sign column.
	ShowSigns bool

	// SignColumnWidth is the width of the sign column.
	SignColumnWidth int
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		LineNumberWidth:    0, // Auto
		MinLineNumberWidth: 3,
		ShowSigns:          true,
		SignColumnWidth:    2,
	}
}

// SignKind represents the kind of sign to display.
type SignKind uint8

const (
	SignNone SignKind = iota

	// SignSection marks the first line of a gallery section.
	SignSection

	// SignNote marks an informational line.
	SignNote

	// SignFallback marks a line whose section degraded to ASCII
	// because the terminal could not display its glyphs.
	SignFallback
)

// Sign represents a sign to display in the gutter.
type Sign struct {
	Line int
	Kind SignKind
}

// SignProvider supplies signs for document lines. The document view
// adapts the composed gallery document to this interface.
type SignProvider interface {
	// SignsForLine returns signs for a given line.
	SignsForLine(line int) []Sign
}

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleCurrentLine
	StyleDim
	StyleSection
	StyleNote
	StyleFallback
)

// Cell represents a single gutter cell.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// Gutter manages gutter rendering state.
type Gutter struct {
	mu sync.RWMutex

	config Config

	width       int // Total calculated width
	lineCount   int // Total lines in the document
	currentLine int // First line of the active section

	provider SignProvider
}

// New creates a gutter with the given configuration.
func New(config Config) *Gutter {
	return &Gutter{
		config: config,
		width:  calculateWidth(config, 1),
	}
}

// Width returns the current gutter width.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// Config returns the current configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the gutter configuration.
func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.width = calculateWidth(config, g.lineCount)
}

// SetLineCount updates the total line count (affects width calculation).
func (g *Gutter) SetLineCount(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if count < 0 {
		count = 0
	}
	g.lineCount = count
	g.width = calculateWidth(g.config, count)
}

// SetCurrentLine updates the highlighted line, normally the first line
// of the active section.
func (g *Gutter) SetCurrentLine(line int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentLine = line
}

// SetSignProvider sets the sign provider.
func (g *Gutter) SetSignProvider(sp SignProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.provider = sp
}

// LineNumberWidth returns just the line number width (without signs or
// separator).
func (g *Gutter) LineNumberWidth() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lineNumberWidth()
}

// RenderLine renders the gutter for a single line.
// exists indicates whether the line is inside the document; rows past
// the end get a '~' filler.
func (g *Gutter) RenderLine(line int, exists bool) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	cells := make([]Cell, g.width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	col := 0

	// Signs column (if enabled)
	if g.config.ShowSigns && g.config.SignColumnWidth > 0 {
		signCells := g.renderSigns(line, exists)
		for i := 0; i < len(signCells) && col < g.width-1; i++ {
			cells[col] = signCells[i]
			col++
		}
	}

	// Line numbers (if enabled)
	if g.config.ShowLineNumbers && exists {
		numCells := g.renderLineNumber(line)
		numWidth := g.lineNumberWidth()

		// Right-align line number
		padding := numWidth - len(numCells)
		for i := 0; i < padding && col < g.width-1; i++ {
			cells[col] = Cell{Rune: ' ', Style: g.styleForLine(line)}
			col++
		}
		for i := 0; i < len(numCells) && col < g.width-1; i++ {
			cells[col] = numCells[i]
			col++
		}
	} else if g.config.ShowLineNumbers && !exists {
		// Show ~ for rows past the end of the document
		numWidth := g.lineNumberWidth()
		for i := 0; i < numWidth-1 && col < g.width-1; i++ {
			cells[col] = Cell{Rune: ' ', Style: StyleDim}
			col++
		}
		if col < g.width-1 {
			cells[col] = Cell{Rune: '~', Style: StyleDim}
			col++
		}
	}

	// Separator (last column)
	cells[g.width-1] = Cell{Rune: ' ', Style: StyleNormal}

	return cells
}

// styleForLine returns the style for a line number.
func (g *Gutter) styleForLine(line int) CellStyle {
	if line == g.currentLine {
		return StyleCurrentLine
	}
	return StyleDim
}

// renderLineNumber returns cells for a 1-indexed line number.
func (g *Gutter) renderLineNumber(line int) []Cell {
	style := g.styleForLine(line)

	numStr := strconv.Itoa(line + 1)
	cells := make([]Cell, len(numStr))
	for i, r := range numStr {
		cells[i] = Cell{Rune: r, Style: style}
	}
	return cells
}

// renderSigns returns cells for the sign column.
func (g *Gutter) renderSigns(line int, exists bool) []Cell {
	cells := make([]Cell, g.config.SignColumnWidth)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	if g.provider == nil || !exists {
		return cells
	}

	signs := g.provider.SignsForLine(line)
	if len(signs) == 0 {
		return cells
	}

	sign := highestPriority(signs)
	r, style := signGlyph(sign.Kind)
	cells[0] = Cell{Rune: r, Style: style}

	return cells
}

// lineNumberWidth returns the width for line numbers.
func (g *Gutter) lineNumberWidth() int {
	if g.config.LineNumberWidth > 0 {
		return g.config.LineNumberWidth
	}

	digits := len(strconv.Itoa(g.lineCount))
	if digits < g.config.MinLineNumberWidth {
		digits = g.config.MinLineNumberWidth
	}
	return digits
}

// calculateWidth calculates the total gutter width.
func calculateWidth(config Config, lineCount int) int {
	width := 0

	if config.ShowSigns {
		width += config.SignColumnWidth
	}

	if config.ShowLineNumbers {
		if config.LineNumberWidth > 0 {
			width += config.LineNumberWidth
		} else {
			digits := len(strconv.Itoa(lineCount))
			if digits < config.MinLineNumberWidth {
				digits = config.MinLineNumberWidth
			}
			width += digits
		}
	}

	// Add separator
	if width > 0 {
		width++
	}

	return width
}

// highestPriority returns the sign with highest priority.
func highestPriority(signs []Sign) Sign {
	if len(signs) == 0 {
		return Sign{Kind: SignNone}
	}

	best := signs[0]
	for _, s := range signs[1:] {
		if signPriority(s.Kind) > signPriority(best.Kind) {
			best = s
		}
	}
	return best
}

// signPriority returns the priority of a sign kind (higher wins).
func signPriority(k SignKind) int {
	switch k {
	case SignFallback:
		return 100
	case SignSection:
		return 90
	case SignNote:
		return 50
	default:
		return 0
	}
}

// signGlyph returns the glyph and style for a sign kind. Glyphs stay
// in ASCII so the gutter never needs fallback handling itself.
func signGlyph(k SignKind) (rune, CellStyle) {
	switch k {
	case SignSection:
		return '>', StyleSection
	case SignNote:
		return '*', StyleNote
	case SignFallback:
		return '!', StyleFallback
	default:
		return ' ', StyleNormal
	}
}
