package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"swaparb/internal/domain"
)

// AskPairs — выбор пар для скана в терминале.
// Enter или 0 — все пары из конфига; номер — одна пара; "BASE/COUNTER" — своя пара.
func AskPairs(in io.Reader, out io.Writer, pairs []domain.Pair) []domain.Pair {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintln(out, "Какие пары сканировать?")
		fmt.Fprintln(out, "0) Все")
		for i, p := range pairs {
			fmt.Fprintf(out, "%d) %s\n", i+1, p)
		}
		fmt.Fprintf(out, "Ваш выбор [0-%d или BASE/COUNTER] (Enter = 0): ", len(pairs))

		raw, err := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "0" {
			return pairs
		}
		if n, convErr := strconv.Atoi(raw); convErr == nil && n >= 1 && n <= len(pairs) {
			return pairs[n-1 : n]
		}
		if p, ok := parsePair(raw); ok {
			return []domain.Pair{p}
		}
		if err != nil {
			// ввод закончился: берём значение по умолчанию
			return pairs
		}
		fmt.Fprintln(out, "Введите номер из списка или пару вида BTC/USDT.")
	}
}

func parsePair(s string) (domain.Pair, bool) {
	base, counter, ok := strings.Cut(strings.ToUpper(s), "/")
	base, counter = strings.TrimSpace(base), strings.TrimSpace(counter)
	if !ok || base == "" || counter == "" || base == counter {
		return domain.Pair{}, false
	}
	return domain.Pair{Base: base, Counter: counter}, true
}
