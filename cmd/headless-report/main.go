package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/Field-Command/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstContactTick int
	firstDeathTick   int
	firstSniperTick  int
	depletedTick     int

	stateChanges int
	targetsTaken int
	unreachable  int

	outcome game.BattleOutcomeReason
	stats   game.Stats
	deaths  map[string]int // unit type -> deaths
}

type reportConfig struct {
	runs     int
	ticks    int
	seedBase int64
	seedStep int64
	jitter   float64
	orders   string
	dumpLog  bool
	scenario *game.Scenario
	registry *game.Registry
	engine   game.Config
}

func main() {
	var rc reportConfig
	var scenarioPath, unitsPath, configPath string

	flag.IntVar(&rc.runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&rc.ticks, "ticks", 3600, "maximum ticks per run")
	flag.Int64Var(&rc.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&rc.seedStep, "seed-step", 1, "seed increment between runs")
	flag.Float64Var(&rc.jitter, "jitter", 24, "max start position jitter in pixels")
	flag.StringVar(&rc.orders, "orders", "assault", "friendly orders: assault, snipe or hold")
	flag.BoolVar(&rc.dumpLog, "dump-log", false, "print each run's full simulation log")
	describe := flag.Bool("describe", false, "print the unit registry before the runs")
	flag.StringVar(&scenarioPath, "scenario", "", "scenario file (default: embedded crossroads)")
	flag.StringVar(&unitsPath, "units", "", "unit registry file (default: embedded)")
	flag.StringVar(&configPath, "config", "", "engine config file (default: embedded)")
	flag.Parse()

	if rc.runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if rc.ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	switch rc.orders {
	case "assault", "snipe", "hold":
	default:
		fmt.Printf("error: unsupported orders %q (supported: assault, snipe, hold)\n", rc.orders)
		return
	}

	setup, err := game.LoadSetup(scenarioPath, unitsPath, configPath)
	if err != nil {
		log.Fatal(err)
	}
	rc.scenario, rc.registry, rc.engine = setup.Scenario, setup.Registry, setup.Config

	if *describe {
		fmt.Println(rc.registry.Describe())
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("scenario=%s orders=%s runs=%d ticks=%d seed_base=%d seed_step=%d jitter=%.0f\n\n",
		rc.scenario.Name, rc.orders, rc.runs, rc.ticks, rc.seedBase, rc.seedStep, rc.jitter)

	all := make([]runStats, 0, rc.runs)
	for i := 0; i < rc.runs; i++ {
		seed := rc.seedBase + int64(i)*rc.seedStep
		rs, err := runScenario(rc, i+1, seed)
		if err != nil {
			log.Fatalf("run %d: %v", i+1, err)
		}
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
}

// jitterScenario copies sc with every unit nudged by up to amount pixels.
// A nudge that would land inside a building is dropped.
func jitterScenario(sc *game.Scenario, rng *rand.Rand, amount, radius float64) *game.Scenario {
	out := *sc
	out.Units = make([]game.ScenarioUnit, len(sc.Units))
	for i, u := range sc.Units {
		moved := u
		moved.X += (rng.Float64()*2 - 1) * amount
		moved.Y += (rng.Float64()*2 - 1) * amount
		if insideMap(out.Map, moved.X, moved.Y, radius) && !blocked(out.Buildings, moved.X, moved.Y, radius) {
			u = moved
		}
		out.Units[i] = u
	}
	return &out
}

func insideMap(m game.MapSize, x, y, pad float64) bool {
	return x >= pad && y >= pad && x < float64(m.Width)-pad && y < float64(m.Height)-pad
}

func blocked(buildings []game.Rect, x, y, pad float64) bool {
	p := game.Point{X: x, Y: y}
	for _, b := range buildings {
		grown := game.Rect{X: b.X - pad - game.TileSize, Y: b.Y - pad - game.TileSize, W: b.W + 2*(pad+game.TileSize), H: b.H + 2*(pad+game.TileSize)}
		if grown.Contains(p) {
			return true
		}
	}
	return false
}

// issueOrders gives the friendly side its opening orders.
func issueOrders(m *game.Manager, orders string) {
	if orders == "hold" {
		return
	}
	var ids []game.UnitID
	for _, u := range m.Units(game.SideFriendly) {
		ids = append(ids, u.ID())
	}
	var sum game.Point
	enemies := m.Units(game.SideEnemy)
	for _, u := range enemies {
		sum = sum.Add(u.Position())
	}
	if len(ids) == 0 || len(enemies) == 0 {
		return
	}
	m.Select(ids...)
	m.IssueMove(game.Point{X: sum.X / float64(len(enemies)), Y: sum.Y / float64(len(enemies))})
	if orders == "snipe" {
		m.IssueAbility(game.AbilitySniper)
	}
}

func runScenario(rc reportConfig, runIndex int, seed int64) (runStats, error) {
	rng := rand.New(rand.NewSource(seed))
	sc := jitterScenario(rc.scenario, rng, rc.jitter, rc.engine.UnitRadius)
	m, _, err := sc.Build(rc.registry, rc.engine)
	if err != nil {
		return runStats{}, err
	}
	issueOrders(m, rc.orders)

	dt := rc.engine.TickDT()
	for i := 0; i < rc.ticks; i++ {
		m.Frame(game.FrameInput{}, dt)
		if m.AliveCount(game.SideFriendly) == 0 || m.AliveCount(game.SideEnemy) == 0 {
			break
		}
	}

	sl := m.Log()
	if rc.dumpLog {
		fmt.Print(sl.Format())
	}
	entries := sl.Entries()
	deaths := map[string]int{}
	for _, e := range sl.Filter("lifecycle", "died") {
		deaths[typeOf(entries, e.Unit)]++
	}
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            m.CurrentTick(),
		firstContactTick: firstTick(entries, "combat", "target", ""),
		firstDeathTick:   firstTick(entries, "lifecycle", "died", ""),
		firstSniperTick:  firstTick(entries, "ability", "sniper", "true"),
		depletedTick:     firstTick(entries, "pool", "depleted", ""),
		stateChanges:     sl.CountCategory("state", "transition"),
		targetsTaken:     sl.CountCategory("combat", "target"),
		unreachable:      sl.CountCategory("move", "unreachable"),
		outcome:          game.DetermineBattleOutcome(m),
		stats:            m.Stats(),
		deaths:           deaths,
	}, nil
}

// typeOf finds a unit's type from its creation entry.
func typeOf(entries []game.SimLogEntry, label string) string {
	for _, e := range entries {
		if e.Unit == label && e.Category == "lifecycle" && e.Key == "created" {
			if f := strings.Fields(e.Value); len(f) > 0 {
				return f[0]
			}
		}
	}
	return label
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate flags runs that ended without a decision for a reason the
// report can name.
func detectStalemate(rs runStats) (bool, string) {
	if rs.outcome.Outcome != game.BattleInconclusive {
		return false, rs.outcome.Description
	}
	if rs.firstContactTick < 0 {
		return true, "no_contact"
	}
	if rs.stats.Hits == 0 && rs.stats.UnitsDied[game.SideFriendly]+rs.stats.UnitsDied[game.SideEnemy] == 0 {
		return true, "no_damage_exchanged"
	}
	fSurv := ratio(rs.outcome.FriendlySurvivors, rs.outcome.FriendlyTotal)
	eSurv := ratio(rs.outcome.EnemySurvivors, rs.outcome.EnemyTotal)
	if fSurv >= 0.5 && eSurv >= 0.5 {
		return true, fmt.Sprintf("high_mutual_survival(friendly=%.0f%%,enemy=%.0f%%)", fSurv*100, eSurv*100)
	}
	return false, "attrition_without_decision"
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s (%s) after %d ticks\n", rs.outcome.Outcome, rs.outcome.Description, rs.ticks)
	fmt.Printf("survivors: friendly %d/%d enemy %d/%d\n",
		rs.outcome.FriendlySurvivors, rs.outcome.FriendlyTotal, rs.outcome.EnemySurvivors, rs.outcome.EnemyTotal)
	fmt.Printf("phase_markers: contact=%d first_death=%d first_sniper=%d pool_depleted=%d\n",
		rs.firstContactTick, rs.firstDeathTick, rs.firstSniperTick, rs.depletedTick)
	fmt.Printf("event_totals: state_change=%d target=%d unreachable=%d\n", rs.stateChanges, rs.targetsTaken, rs.unreachable)
	fmt.Printf("deaths_by_type: %s\n", joinCounts(rs.deaths))
	if stale, reason := detectStalemate(rs); stale {
		fmt.Printf("stalemate: %s\n", reason)
	}
	fmt.Print(rs.stats)
	fmt.Println()
}

func printAggregate(all []runStats) {
	var total game.Stats
	outcomes := map[string]int{}
	deaths := map[string]int{}
	contactTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	stalemates := 0
	for _, rs := range all {
		total.Add(rs.stats)
		outcomes[rs.outcome.Outcome.String()]++
		for k, v := range rs.deaths {
			deaths[k] += v
		}
		if rs.firstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.firstContactTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d stalemates=%d\n", len(all), stalemates)
	fmt.Printf("outcomes: %s\n", joinCounts(outcomes))
	fmt.Printf("avg_per_run: shots=%.1f hits=%.1f friendly_deaths=%.1f enemy_deaths=%.1f\n",
		avg(total.Shots, len(all)), avg(total.Hits, len(all)),
		avg(total.UnitsDied[game.SideFriendly], len(all)), avg(total.UnitsDied[game.SideEnemy], len(all)))
	fmt.Printf("accuracy=%.0f%%\n", total.Accuracy()*100)
	fmt.Printf("phase_marker_avg_ticks: first_contact=%s first_death=%s\n", avgTickString(contactTicks), avgTickString(deathTicks))
	fmt.Printf("deaths_by_type: %s\n", joinCounts(deaths))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
