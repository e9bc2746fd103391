package game

import (
	"fmt"
	"strings"
)

// Stats counts simulation events since the manager was created or restored.
// Side-indexed arrays use Side as the index.
type Stats struct {
	UnitsCreated    [2]int
	UnitsDied       [2]int
	Shots           int
	Hits            int
	Misses          int
	OutOfRange      int
	AbilitiesUsed   int
	AbilitiesDenied int
	PathsFailed     int
}

// Accuracy is the share of resolved bullets that hit. Melee blows count as
// shots but never resolve a bullet, so they are left out.
func (s Stats) Accuracy() float64 {
	resolved := s.Hits + s.Misses + s.OutOfRange
	if resolved == 0 {
		return 0
	}
	return float64(s.Hits) / float64(resolved)
}

// Add accumulates o into s, for multi-run reports.
func (s *Stats) Add(o Stats) {
	for i := range s.UnitsCreated {
		s.UnitsCreated[i] += o.UnitsCreated[i]
		s.UnitsDied[i] += o.UnitsDied[i]
	}
	s.Shots += o.Shots
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.OutOfRange += o.OutOfRange
	s.AbilitiesUsed += o.AbilitiesUsed
	s.AbilitiesDenied += o.AbilitiesDenied
	s.PathsFailed += o.PathsFailed
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "units    friendly %d created %d died | enemy %d created %d died\n",
		s.UnitsCreated[SideFriendly], s.UnitsDied[SideFriendly], s.UnitsCreated[SideEnemy], s.UnitsDied[SideEnemy])
	fmt.Fprintf(&sb, "fire     shots=%d hits=%d misses=%d out_of_range=%d accuracy=%.0f%%\n",
		s.Shots, s.Hits, s.Misses, s.OutOfRange, s.Accuracy()*100)
	fmt.Fprintf(&sb, "ability  used=%d denied=%d\n", s.AbilitiesUsed, s.AbilitiesDenied)
	fmt.Fprintf(&sb, "move     unreachable=%d\n", s.PathsFailed)
	return sb.String()
}
