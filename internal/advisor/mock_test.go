package advisor

import (
	"strings"
	"testing"

	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
)

func TestMentionsWord(t *testing.T) {
	cases := []struct {
		message string
		words   []string
		want    bool
	}{
		{"what about btc?", []string{"btc", "bitcoin"}, true},
		{"is ethereum worth it", []string{"eth", "ethereum"}, true},
		{"whether i should stake", []string{"eth", "ethereum"}, false},
		{"what method works best", []string{"eth", "ethereum"}, false},
		{"price of eth, please", []string{"eth", "ethereum"}, true},
		{"the sellers are gone", []string{"buy", "sell"}, false},
		{"should i sell now", []string{"buy", "sell"}, true},
	}
	for _, tc := range cases {
		if got := mentionsWord(tc.message, tc.words...); got != tc.want {
			t.Errorf("mentionsWord(%q, %v) = %v, want %v", tc.message, tc.words, got, tc.want)
		}
	}
}

func TestMockChatResponseTickerRouting(t *testing.T) {
	trader, _ := personas.Get(personas.Trader)
	buddy, _ := personas.Get(personas.Buddy)
	snapshot := testSnapshot()

	// "whether"/"method" contain "eth" as a substring but must not route to
	// the ETH branch.
	text := mockChatResponse(trader, "What method gives an edge here?", snapshot)
	if strings.HasPrefix(text, "ETH:") {
		t.Errorf("trader mock routed to ETH on a non-asset message:\n%s", text)
	}

	text = mockChatResponse(buddy, "Whether I should stake or not?", snapshot)
	if strings.Contains(text, "Ethereum is around") {
		t.Errorf("buddy mock routed to ETH on a non-asset message:\n%s", text)
	}

	// Real ticker mentions still route.
	text = mockChatResponse(trader, "Thoughts on ETH?", snapshot)
	if !strings.HasPrefix(text, "ETH:") {
		t.Errorf("trader mock missed an explicit ETH mention:\n%s", text)
	}
}
