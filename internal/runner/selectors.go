package runner

import (
	"fmt"
	"strings"

	"annobench/internal/spec"
	"annobench/internal/unit"
)

// PairSelector chooses a unit and optional agent restriction.
type PairSelector struct {
	UnitID  string
	AgentID string
}

// ParseSelectors parses selector strings of the form unit@agent.
func ParseSelectors(inputs []string) ([]PairSelector, error) {
	selectors := make([]PairSelector, 0, len(inputs))
	for _, input := range inputs {
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if strings.Count(trimmed, "@") > 1 {
			return nil, fmt.Errorf("invalid selector %q", input)
		}
		parts := strings.SplitN(trimmed, "@", 2)
		unitID := strings.TrimSpace(parts[0])
		if unitID == "" {
			return nil, fmt.Errorf("invalid selector %q", input)
		}
		selector := PairSelector{UnitID: unitID}
		if len(parts) == 2 {
			agentID := strings.TrimSpace(parts[1])
			if agentID == "" {
				return nil, fmt.Errorf("invalid selector %q", input)
			}
			selector.AgentID = agentID
		}
		selectors = append(selectors, selector)
	}
	return selectors, nil
}

// planPairs expands the agent and unit cross product, filtered by
// selectors and the optional agent override.
func planPairs(cfg spec.Config, units []unit.Unit, selectors []PairSelector, agentOverride string) ([]pairRun, error) {
	agents := cfg.Agents
	if agentOverride != "" {
		var found *spec.AgentConfig
		for i := range cfg.Agents {
			if cfg.Agents[i].ID == agentOverride {
				found = &cfg.Agents[i]
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("unknown agent id %q", agentOverride)
		}
		agents = []spec.AgentConfig{*found}
	}

	selected := func(unitID, agentID string) bool {
		if len(selectors) == 0 {
			return true
		}
		for _, selector := range selectors {
			if selector.UnitID != unitID {
				continue
			}
			if selector.AgentID == "" || selector.AgentID == agentID {
				return true
			}
		}
		return false
	}

	unitIDs := map[string]struct{}{}
	for _, u := range units {
		unitIDs[u.ID] = struct{}{}
	}
	for _, selector := range selectors {
		if _, ok := unitIDs[selector.UnitID]; !ok {
			return nil, fmt.Errorf("unknown unit id %q", selector.UnitID)
		}
	}

	var pairs []pairRun
	for _, u := range units {
		for _, agent := range agents {
			if selected(u.ID, agent.ID) {
				pairs = append(pairs, pairRun{Agent: agent, Unit: u.ID})
			}
		}
	}
	return pairs, nil
}
