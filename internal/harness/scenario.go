package harness

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/config"
)

// Scenario is one replay test case: a view configuration, an ordered event
// list and assertions on the final entity state.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// FeeDecimals is the base-unit exponent for amount conversion.
	// Defaults to 18.
	FeeDecimals int32 `yaml:"fee_decimals,omitempty"`

	// Views are the pre-resolved contract view results, in the same shape
	// as the run config's views block.
	Views config.Views `yaml:"views,omitempty"`

	// Events are event-log envelopes in delivery order. Each is the YAML
	// equivalent of one NDJSON log line.
	Events []map[string]any `yaml:"events"`

	// Assertions are final-state checks evaluated after the replay.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion checks one entity after the replay. Expect is a subset match:
// only the listed fields are compared. Absent asserts the entity does not
// exist.
type Assertion struct {
	Kind   string         `yaml:"kind"`
	ID     string         `yaml:"id"`
	Absent bool           `yaml:"absent,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(sc.Events) == 0 {
		return nil, fmt.Errorf("scenario %s: no events", path)
	}
	if sc.FeeDecimals == 0 {
		sc.FeeDecimals = 18
	}
	return &sc, nil
}

// ParseEvents converts the scenario's envelopes into typed events by going
// through the same decoder the run command uses on NDJSON log lines.
func (s *Scenario) ParseEvents() ([]chain.Event, error) {
	events := make([]chain.Event, 0, len(s.Events))
	for i, env := range s.Events {
		line, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: event %d: %w", s.Name, i, err)
		}
		ev, err := chain.ParseEvent(line)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: event %d: %w", s.Name, i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
