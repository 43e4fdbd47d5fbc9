// Package jitter добавляет случайность в интервалы повторов, чтобы повторные попытки
// нескольких экземпляров сервиса не совпадали по времени.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter задаёт стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает продолжительность с применённым джиттером в диапазоне [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	return d + time.Duration(rand.Float64()*factor*float64(d))
}

// ExponentialBackoff удваивает base на каждой попытке (нумерация с нуля), не превышая maxDelay,
// и добавляет джиттер.
func ExponentialBackoff(base, maxDelay time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for range attempt {
		backoff *= 2
		if backoff >= maxDelay {
			backoff = maxDelay
			break
		}
	}

	return Duration(backoff, factor)
}

// Backoff хранит параметры повторов для одного вида операций.
type Backoff struct {
	Base     time.Duration
	Max      time.Duration
	Factor   float64
	Attempts int
}

// Delay возвращает паузу перед попыткой attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	return ExponentialBackoff(b.Base, b.Max, attempt, b.Factor)
}
