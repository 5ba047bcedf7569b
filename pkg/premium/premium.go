// Package premium computes the cross-exchange price premium: the signed
// percentage deviation of the local (KRW) price from the foreign (USD) price
// converted at the current exchange rate.
package premium

import "math"

// Compute returns the premium percentage and ok=true, or ok=false when any
// input is NaN, non-positive, or would produce a zero denominator. Positive
// means the local price trades above the converted foreign price.
//
// The result is recomputed per request and never cached: its inputs carry
// independent cache policies, and caching the derived value could pin a mix
// of differently-aged sources.
func Compute(localPrice, foreignPrice, fxRate float64) (float64, bool) {
	if math.IsNaN(localPrice) || math.IsNaN(foreignPrice) || math.IsNaN(fxRate) {
		return 0, false
	}
	if localPrice <= 0 || foreignPrice <= 0 || fxRate <= 0 {
		return 0, false
	}
	converted := foreignPrice * fxRate
	return (localPrice - converted) / converted * 100, true
}
