package view

import (
	"slices"

	"github.com/Garsondee/Field-Command/internal/game"
)

// Overlay mirrors what the manager reports over the UI bridge: bars,
// selection, drag rectangle and cursor. It implements game.UIBridge.
type Overlay struct {
	bars     map[game.UnitID]game.UnitBars
	selected []game.UnitID
	dragRect game.Rect
	dragging bool
	cursor   game.CursorState
	removed  int
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{bars: make(map[game.UnitID]game.UnitBars)}
}

// SelectionChanged implements game.UIBridge.
func (o *Overlay) SelectionChanged(rect game.Rect, dragging bool, selected []game.UnitID) {
	o.dragRect = rect
	o.dragging = dragging
	o.selected = append(o.selected[:0], selected...)
}

// CursorChanged implements game.UIBridge.
func (o *Overlay) CursorChanged(c game.CursorState) { o.cursor = c }

// UnitBars implements game.UIBridge.
func (o *Overlay) UnitBars(b game.UnitBars) { o.bars[b.ID] = b }

// UnitRemoved implements game.UIBridge.
func (o *Overlay) UnitRemoved(id game.UnitID) {
	delete(o.bars, id)
	o.removed++
}

// Bars returns the last bars reported for id.
func (o *Overlay) Bars(id game.UnitID) (game.UnitBars, bool) {
	b, ok := o.bars[id]
	return b, ok
}

// IsSelected reports whether id is in the last reported selection.
func (o *Overlay) IsSelected(id game.UnitID) bool { return slices.Contains(o.selected, id) }

// Selected returns the last reported selection.
func (o *Overlay) Selected() []game.UnitID { return o.selected }

// Drag returns the drag rectangle and whether a drag is in progress.
func (o *Overlay) Drag() (game.Rect, bool) { return o.dragRect, o.dragging }

// Cursor returns the last reported cursor state.
func (o *Overlay) Cursor() game.CursorState { return o.cursor }

// Removed returns how many units have been removed since creation.
func (o *Overlay) Removed() int { return o.removed }
