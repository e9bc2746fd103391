package game

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Field-Command/assets"
)

// Scenario is the initial battlefield: map size, obstacles and units.
type Scenario struct {
	Name      string         `yaml:"name"`
	Map       MapSize        `yaml:"map"`
	Buildings []Rect         `yaml:"buildings"`
	Units     []ScenarioUnit `yaml:"units"`
}

// MapSize is the playfield in pixels.
type MapSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScenarioUnit places one unit.
type ScenarioUnit struct {
	Type string  `yaml:"type"`
	Side string  `yaml:"side"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(b)
}

// ParseScenario decodes a scenario document strictly.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if sc.Map.Width < tileSize || sc.Map.Height < tileSize {
		return nil, errors.New("scenario map must be at least one tile")
	}
	for i, u := range sc.Units {
		if _, err := ParseSide(u.Side); err != nil {
			return nil, fmt.Errorf("scenario unit %d: %w", i, err)
		}
	}
	return &sc, nil
}

// Build creates the nav grid and a manager populated with the scenario's
// units. An unknown unit type is an error wrapping ErrUnknownUnitType.
func (sc *Scenario) Build(reg *Registry, cfg Config) (*Manager, *NavGrid, error) {
	for i, su := range sc.Units {
		if _, ok := reg.Lookup(su.Type); !ok {
			return nil, nil, fmt.Errorf("scenario unit %d: %w: %q", i, ErrUnknownUnitType, su.Type)
		}
	}
	ng := NewNavGrid(sc.Map.Width, sc.Map.Height, sc.Buildings, int(cfg.UnitRadius))
	m := NewManager(reg, ng, sc.Buildings, cfg)
	for _, su := range sc.Units {
		side, _ := ParseSide(su.Side)
		m.CreateUnit(su.Type, su.X, su.Y, side == SideEnemy)
	}
	return m, ng, nil
}

// Setup bundles what a binary needs to start a battle.
type Setup struct {
	Scenario *Scenario
	Registry *Registry
	Config   Config
}

// LoadSetup reads the scenario, unit registry and engine config. An empty
// path selects the embedded default for that file.
func LoadSetup(scenarioPath, unitsPath, configPath string) (Setup, error) {
	var s Setup
	var err error
	if scenarioPath == "" {
		s.Scenario, err = ParseScenario(assets.Scenario)
	} else {
		s.Scenario, err = LoadScenario(scenarioPath)
	}
	if err != nil {
		return Setup{}, err
	}
	if unitsPath == "" {
		s.Registry, err = DefaultRegistry()
	} else {
		s.Registry, err = LoadRegistry(unitsPath)
	}
	if err != nil {
		return Setup{}, err
	}
	if configPath == "" {
		s.Config, err = ParseConfig(assets.Engine)
	} else {
		s.Config, err = LoadConfig(configPath)
	}
	if err != nil {
		return Setup{}, err
	}
	return s, nil
}

// Build creates the battle described by the setup.
func (s Setup) Build() (*Manager, *NavGrid, error) {
	return s.Scenario.Build(s.Registry, s.Config)
}
