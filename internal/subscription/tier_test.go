package subscription

import "testing"

func TestParseNormalizes(t *testing.T) {
	cases := map[string]Tier{
		"free":    TierFree,
		" Pro ":   TierPro,
		"ELITE":   TierElite,
		"":        TierFree,
		"platinum": TierFree,
	}
	for input, want := range cases {
		if got := Parse(input); got != want {
			t.Errorf("Parse(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAllows(t *testing.T) {
	if !TierElite.Allows(TierPro) {
		t.Error("elite should allow pro features")
	}
	if !TierPro.Allows(TierPro) {
		t.Error("pro should allow pro features")
	}
	if TierFree.Allows(TierPro) {
		t.Error("free should not allow pro features")
	}
	if TierPro.Allows(TierElite) {
		t.Error("pro should not allow elite features")
	}
}
