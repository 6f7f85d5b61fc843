package runner

import (
	"testing"

	"annobench/internal/spec"
	"annobench/internal/unit"
)

// TestParseSelectors covers unit and unit@agent forms.
func TestParseSelectors(t *testing.T) {
	selectors, err := ParseSelectors([]string{"Calculator", " Stack@alpha ", ""})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(selectors) != 2 {
		t.Fatalf("expected 2 selectors, got %d", len(selectors))
	}
	if selectors[0] != (PairSelector{UnitID: "Calculator"}) {
		t.Fatalf("unexpected selector: %+v", selectors[0])
	}
	if selectors[1] != (PairSelector{UnitID: "Stack", AgentID: "alpha"}) {
		t.Fatalf("unexpected selector: %+v", selectors[1])
	}
}

// TestParseSelectorsRejections covers malformed selector strings.
func TestParseSelectorsRejections(t *testing.T) {
	for _, input := range []string{"@alpha", "Stack@", "a@b@c"} {
		if _, err := ParseSelectors([]string{input}); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func planFixture() (spec.Config, []unit.Unit) {
	cfg := spec.Config{
		Agents: []spec.AgentConfig{
			{ID: "alpha", Provider: "ollama", Model: "a"},
			{ID: "beta", Provider: "ollama", Model: "b"},
		},
	}
	units := []unit.Unit{
		{ID: "Calculator", SourceText: "public class Calculator {}"},
		{ID: "Stack", SourceText: "public class Stack {}"},
	}
	return cfg, units
}

// TestPlanPairsCrossProduct verifies the full grid expansion.
func TestPlanPairsCrossProduct(t *testing.T) {
	cfg, units := planFixture()
	pairs, err := planPairs(cfg, units, nil, "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pairs))
	}
}

// TestPlanPairsSelectorFilter verifies unit and unit@agent filtering.
func TestPlanPairsSelectorFilter(t *testing.T) {
	cfg, units := planFixture()

	pairs, err := planPairs(cfg, units, []PairSelector{{UnitID: "Calculator"}}, "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs for unit selector, got %d", len(pairs))
	}

	pairs, err = planPairs(cfg, units, []PairSelector{{UnitID: "Stack", AgentID: "beta"}}, "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Agent.ID != "beta" || pairs[0].Unit != "Stack" {
		t.Fatalf("unexpected pairs: %+v", pairs)
	}
}

// TestPlanPairsUnknownUnit verifies selectors naming missing units fail.
func TestPlanPairsUnknownUnit(t *testing.T) {
	cfg, units := planFixture()
	if _, err := planPairs(cfg, units, []PairSelector{{UnitID: "Queue"}}, ""); err == nil {
		t.Fatalf("expected unknown unit error")
	}
}

// TestPlanPairsAgentOverride verifies the override narrows agents and
// rejects unknown IDs.
func TestPlanPairsAgentOverride(t *testing.T) {
	cfg, units := planFixture()
	pairs, err := planPairs(cfg, units, nil, "alpha")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for _, pair := range pairs {
		if pair.Agent.ID != "alpha" {
			t.Fatalf("unexpected agent: %q", pair.Agent.ID)
		}
	}
	if _, err := planPairs(cfg, units, nil, "gamma"); err == nil {
		t.Fatalf("expected unknown agent error")
	}
}
