package game

type BattleOutcome int

const (
	BattleInconclusive BattleOutcome = iota
	BattleFriendlyVictory
	BattleEnemyVictory
	BattleDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case BattleFriendlyVictory:
		return "friendly_victory"
	case BattleEnemyVictory:
		return "enemy_victory"
	case BattleDraw:
		return "draw"
	case BattleInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type BattleOutcomeReason struct {
	Outcome           BattleOutcome
	FriendlySurvivors int
	FriendlyTotal     int
	EnemySurvivors    int
	EnemyTotal        int
	Description       string
}

// DetermineBattleOutcome classifies the battle from survivors against the
// number of units each side fielded.
func DetermineBattleOutcome(m *Manager) BattleOutcomeReason {
	r := BattleOutcomeReason{
		FriendlySurvivors: m.AliveCount(SideFriendly),
		FriendlyTotal:     m.stats.UnitsCreated[SideFriendly],
		EnemySurvivors:    m.AliveCount(SideEnemy),
		EnemyTotal:        m.stats.UnitsCreated[SideEnemy],
	}
	casualties := func(survivors, total int) float64 {
		if total == 0 {
			return 0
		}
		return float64(total-survivors) / float64(total)
	}
	friendlyRate := casualties(r.FriendlySurvivors, r.FriendlyTotal)
	enemyRate := casualties(r.EnemySurvivors, r.EnemyTotal)

	switch {
	case r.FriendlySurvivors == 0 && r.EnemySurvivors == 0:
		r.Outcome, r.Description = BattleDraw, "mutual_annihilation"
	case r.FriendlySurvivors == 0:
		r.Outcome, r.Description = BattleEnemyVictory, "decisive_enemy_victory_friendly_eliminated"
	case r.EnemySurvivors == 0:
		r.Outcome, r.Description = BattleFriendlyVictory, "decisive_friendly_victory_enemy_eliminated"
	case enemyRate-friendlyRate > 0.30 && friendlyRate < 0.50:
		r.Outcome, r.Description = BattleFriendlyVictory, "marginal_friendly_victory_casualty_advantage"
	case friendlyRate-enemyRate > 0.30 && enemyRate < 0.50:
		r.Outcome, r.Description = BattleEnemyVictory, "marginal_enemy_victory_casualty_advantage"
	case enemyRate-friendlyRate >= -0.20 && enemyRate-friendlyRate <= 0.20 && (friendlyRate > 0.30 || enemyRate > 0.30):
		r.Outcome, r.Description = BattleDraw, "draw_similar_casualties"
	default:
		r.Outcome, r.Description = BattleInconclusive, "inconclusive_insufficient_resolution"
	}
	return r
}
