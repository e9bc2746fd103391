// Package assets embeds the default unit registry, scenario and engine
// config so every binary runs without a data directory.
package assets

import _ "embed"

//go:embed units.yaml
var Units []byte

//go:embed scenario.yaml
var Scenario []byte

//go:embed engine.yaml
var Engine []byte
