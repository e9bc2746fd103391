package game

import "math"

// Direction is one of the 8 discrete unit headings. Screen coordinates: +Y is
// south.
type Direction int

const (
	DirNone Direction = iota
	DirNorth
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest
)

func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "N"
	case DirNorthEast:
		return "NE"
	case DirEast:
		return "E"
	case DirSouthEast:
		return "SE"
	case DirSouth:
		return "S"
	case DirSouthWest:
		return "SW"
	case DirWest:
		return "W"
	case DirNorthWest:
		return "NW"
	default:
		return "none"
	}
}

// headingSectors lists directions counter-clockwise from east in 45° steps,
// matching atan2 with the Y axis flipped.
var headingSectors = [8]Direction{
	DirEast, DirNorthEast, DirNorth, DirNorthWest,
	DirWest, DirSouthWest, DirSouth, DirSouthEast,
}

// DirectionOf discretises the vector (dx,dy) into one of 8 headings.
// A zero vector yields DirNone.
func DirectionOf(dx, dy float64) Direction {
	if math.Abs(dx) < 1e-9 && math.Abs(dy) < 1e-9 {
		return DirNone
	}
	angle := math.Atan2(-dy, dx) // flip Y so north is +90°
	sector := int(math.Round(angle/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return headingSectors[sector]
}

// Vector returns the unit grid step for the heading, e.g. (1,-1) for NE.
func (d Direction) Vector() (int, int) {
	switch d {
	case DirNorth:
		return 0, -1
	case DirNorthEast:
		return 1, -1
	case DirEast:
		return 1, 0
	case DirSouthEast:
		return 1, 1
	case DirSouth:
		return 0, 1
	case DirSouthWest:
		return -1, 1
	case DirWest:
		return -1, 0
	case DirNorthWest:
		return -1, -1
	default:
		return 0, 0
	}
}
