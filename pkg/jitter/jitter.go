// Package jitter разносит сроки жизни ключей кэша, записанных одновременно,
// чтобы они не истекали одной волной.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter: TTL растягивается не более чем на половину.
const DefaultJitter = 0.5

// Duration возвращает d, увеличенную на случайную долю не больше factor.
// Результат лежит в [d, d*(1+factor)]; при d <= 0 или factor <= 0 возвращается d.
func Duration(d time.Duration, factor float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	return d + time.Duration(rand.Float64()*factor*float64(d))
}
