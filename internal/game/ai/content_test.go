package ai_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/frontier/internal/game/ai"
	"github.com/cory-johannsen/frontier/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

func loadShippedDomain(t *testing.T, name string) *ai.Planner {
	t.Helper()
	d, err := ai.LoadDomain(filepath.Join(repoRoot(t), "content", "domains", name))
	if err != nil {
		t.Fatalf("LoadDomain: %v", err)
	}
	p, err := ai.NewPlanner(d)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return p
}

func TestShippedDomains_AllLoad(t *testing.T) {
	domains, err := ai.LoadDomains(filepath.Join(repoRoot(t), "content", "domains"))
	if err != nil {
		t.Fatalf("LoadDomains: %v", err)
	}
	if len(domains) == 0 {
		t.Fatal("expected at least one shipped domain")
	}
	for _, d := range domains {
		if _, err := ai.NewPlanner(d); err != nil {
			t.Errorf("domain %q does not plan: %v", d.ID, err)
		}
	}
}

func TestExpeditionDomain_SurveysFreshGround(t *testing.T) {
	p := loadShippedDomain(t, "expedition.yaml")

	obs := scripting.Observation{
		Remaining:     100,
		AreaID:        "a0-0",
		SurveyChance:  0.10,
		SurveyTargets: 3,
	}
	actions := p.Plan(obs)
	if len(actions) == 0 || actions[0].Action != "survey" {
		t.Fatalf("expected survey first, got %v", actions)
	}
}

func TestExpeditionDomain_AdvancesWhenLocalWorkIsDone(t *testing.T) {
	p := loadShippedDomain(t, "expedition.yaml")

	obs := scripting.Observation{
		Remaining:     100,
		AreaID:        "a1-0",
		Distance:      1,
		FullyExplored: true,
		Exits: []scripting.Exit{
			{AreaID: "a0-0", Distance: 0, Ticks: 10, Explored: true},
			{AreaID: "a2-2", Distance: 2, Ticks: 20},
		},
	}
	actions := p.Plan(obs)
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %v", actions)
	}
	if actions[0].Action != "travel" || actions[0].Target != "a2-2" {
		t.Fatalf("expected travel to a2-2, got %+v", actions[0])
	}
}
