package swap

import "swaparb/internal/domain"

// Alignment — как два стакана соотносятся друг с другом и с торговой валютой.
type Alignment int

const (
	// AlignmentInvalid — стаканы нельзя выровнять.
	AlignmentInvalid Alignment = iota
	// AlignmentSameBase: A и B одной ориентации, торгуем базой A.
	AlignmentSameBase
	// AlignmentSameCounter: A и B одной ориентации, торгуем котировкой A.
	AlignmentSameCounter
	// AlignmentCrossBase: B перевёрнут относительно A, торгуем базой A.
	AlignmentCrossBase
	// AlignmentCrossCounter: B перевёрнут относительно A, торгуем котировкой A.
	AlignmentCrossCounter
)

func (a Alignment) String() string {
	switch a {
	case AlignmentSameBase:
		return "same/base"
	case AlignmentSameCounter:
		return "same/counter"
	case AlignmentCrossBase:
		return "cross/base"
	case AlignmentCrossCounter:
		return "cross/counter"
	default:
		return "invalid"
	}
}

// legs — откуда берутся ноги для каждого случая.
type legs struct {
	sellFromAsks bool // flip(A.asks[0]) вместо A.bids[0]
	buyFromAsks  bool // flip(B.asks[0]) вместо B.bids[0]
	startCounter bool // стартовая валюта — котировка A
}

var legTable = map[Alignment]legs{
	AlignmentSameBase:     {sellFromAsks: false, buyFromAsks: true, startCounter: false},
	AlignmentSameCounter:  {sellFromAsks: true, buyFromAsks: false, startCounter: true},
	AlignmentCrossBase:    {sellFromAsks: false, buyFromAsks: false, startCounter: false},
	AlignmentCrossCounter: {sellFromAsks: true, buyFromAsks: true, startCounter: true},
}

// Classify определяет случай по валютам стаканов A (продажа) и B (покупка)
// и коду торговой валюты. Валюты сравниваются по коду.
func Classify(aBase, aCounter, bBase, bCounter domain.Currency, trading string) Alignment {
	same := aBase.IsSameCurrency(bBase) && aCounter.IsSameCurrency(bCounter)
	cross := aBase.IsSameCurrency(bCounter) && aCounter.IsSameCurrency(bBase)
	onBase := aBase.Code == trading
	onCounter := aCounter.Code == trading

	switch {
	case same && onBase:
		return AlignmentSameBase
	case same && onCounter:
		return AlignmentSameCounter
	case cross && onBase:
		return AlignmentCrossBase
	case cross && onCounter:
		return AlignmentCrossCounter
	default:
		return AlignmentInvalid
	}
}
