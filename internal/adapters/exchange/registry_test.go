package exchange

import (
	"testing"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/fees"
)

func TestBuild(t *testing.T) {
	vs, err := Build([]string{"binance", "OKX", "bybit", "kucoin", "Gate", "htx", "bitget"}, domain.Config{Limit: 5}, fees.Schedule{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"Binance", "OKX", "Bybit", "KuCoin", "Gate", "HTX", "Bitget"}
	if len(vs) != len(want) {
		t.Fatalf("venues=%d want=%d", len(vs), len(want))
	}
	for i, v := range vs {
		if v.Name() != want[i] {
			t.Fatalf("venue %d = %s, want %s", i, v.Name(), want[i])
		}
	}
	if _, err := Build([]string{"kraken"}, domain.Config{}, fees.Schedule{}); err == nil {
		t.Fatalf("unknown venue must fail")
	}
}
