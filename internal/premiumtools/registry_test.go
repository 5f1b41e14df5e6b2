package premiumtools

import (
	"testing"

	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
)

func TestRegistryComplete(t *testing.T) {
	all := All()
	if len(all) != 7 {
		t.Fatalf("expected 7 tools, got %d", len(all))
	}
	for _, tool := range all {
		if tool.SystemPrompt == "" || tool.OutputFormat == "" {
			t.Errorf("tool %s missing prompt or output format", tool.ID)
		}
		if tool.CreditCost <= 0 {
			t.Errorf("tool %s has non-positive credit cost", tool.ID)
		}
		if tool.RequiredTier != subscription.TierPro && tool.RequiredTier != subscription.TierElite {
			t.Errorf("tool %s has unexpected tier %s", tool.ID, tool.RequiredTier)
		}
	}
}

func TestWhaleTrackerRequiresPro(t *testing.T) {
	tool, ok := Get(WhaleTracker)
	if !ok {
		t.Fatal("whale_tracker missing")
	}
	if tool.RequiredTier != subscription.TierPro {
		t.Errorf("whale_tracker should require pro, got %s", tool.RequiredTier)
	}
}

func TestGetUnknownTool(t *testing.T) {
	if _, ok := Get("moon_caller"); ok {
		t.Fatal("expected unknown tool to be absent")
	}
}
