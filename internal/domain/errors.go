package domain

import "errors"

// Ошибки ядра. Все восстановимые: вызывающий проверяет их через errors.Is.
var (
	// ErrInvalidOrder — ордер не подходит ни к одной стороне стакана.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInvalidOrderBookCombo — два стакана нельзя выровнять под торговую валюту.
	ErrInvalidOrderBookCombo = errors.New("invalid order book combination")
	// ErrEmptySide — спред/ликвидность на пустой стороне.
	ErrEmptySide = errors.New("order book side is empty")
	// ErrLockUnavailable — сторона стакана отравлена паникой внутри критической секции.
	ErrLockUnavailable = errors.New("order book side lock unavailable")
	// ErrDivideByZero — переворот или спред при нулевом курсе.
	ErrDivideByZero = errors.New("divide by zero")
)
