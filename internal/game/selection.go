package game

import "strings"

// inputState is the manager's view of the pointer between frames.
type inputState struct {
	dragging  bool
	dragStart Point // screen
	dragEnd   Point // screen
	rect      Rect  // world
	hovered   UnitID
	cursor    CursorState
	world     Point
}

// PreUpdate consumes one frame of input: the drag gesture, the hover target
// and command intake.
func (m *Manager) PreUpdate(in FrameInput) {
	m.input.world = in.Cursor.Add(in.Camera)

	if in.SelectPressed {
		m.input.dragging = true
		m.input.dragStart = in.Cursor
		m.input.dragEnd = in.Cursor
	}
	if m.input.dragging && (in.SelectHeld || in.SelectReleased) {
		m.input.dragEnd = in.Cursor
	}
	if m.input.dragging {
		m.input.rect = SelectionRect(m.input.dragStart, m.input.dragEnd, in.Camera)
		if in.SelectReleased {
			m.input.dragging = false
			m.selectInRect(m.input.rect)
		} else {
			m.ui.SelectionChanged(m.input.rect, true, m.Selected())
		}
	}

	m.updateHover()

	if in.MoveOrder {
		if t, ok := m.liveUnit(m.input.hovered); ok && t.side == SideEnemy {
			m.Engage(t.id)
		} else {
			m.IssueMove(m.input.world)
		}
	}
	if in.Ability != AbilityNone {
		m.IssueAbility(in.Ability)
	}
	if in.StopAbility != AbilityNone {
		m.IssueStop(in.StopAbility)
	}
}

// SelectionRect normalises a screen drag into a world rectangle. Min/max are
// resolved in screen space before the camera offset is applied, so the drag
// direction never matters.
func SelectionRect(start, end, camera Point) Rect {
	return RectFromPoints(start, end).Offset(camera)
}

// selectInRect replaces the selection with every live friendly unit whose
// bounds intersect r.
func (m *Manager) selectInRect(r Rect) {
	var ids []UnitID
	for _, id := range m.friendly {
		if u, ok := m.liveUnit(id); ok && u.Bounds().Intersects(r) {
			ids = append(ids, id)
		}
	}
	m.Select(ids...)
}

// Select replaces the selection. Handles that are not live friendly units
// are ignored.
func (m *Manager) Select(ids ...UnitID) {
	m.selected = m.selected[:0]
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		u, ok := m.liveUnit(id)
		if !ok || u.side != SideFriendly {
			continue
		}
		if !containsID(m.selected, id) {
			m.selected = append(m.selected, id)
			labels = append(labels, u.label)
		}
	}
	m.log.Add(m.tick, "--", "friendly", "select", "changed", strings.Join(labels, ","), float64(len(m.selected)))
	m.ui.SelectionChanged(m.input.rect, m.input.dragging, m.Selected())
}

// Selected returns a copy of the selection.
func (m *Manager) Selected() []UnitID {
	return append([]UnitID(nil), m.selected...)
}

// DragRect returns the current drag rectangle and whether a drag is in
// progress.
func (m *Manager) DragRect() (Rect, bool) {
	return m.input.rect, m.input.dragging
}

// Hovered returns the unit under the cursor, or zero.
func (m *Manager) Hovered() UnitID { return m.input.hovered }

// Cursor returns the hover feedback state.
func (m *Manager) Cursor() CursorState { return m.input.cursor }

func (m *Manager) updateHover() {
	m.input.hovered = 0
	cursor := CursorStandard
	if u, ok := m.unitAt(m.input.world); ok {
		m.input.hovered = u.id
		cursor = CursorOnFriendly
		if u.side == SideEnemy {
			cursor = CursorOnEnemy
		}
	}
	if m.input.dragging {
		cursor = CursorDrag
	}
	if cursor != m.input.cursor {
		m.input.cursor = cursor
		m.ui.CursorChanged(cursor)
	}
}

func containsID(ids []UnitID, id UnitID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
