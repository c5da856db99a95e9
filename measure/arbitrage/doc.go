// Package arbitrage checks a call-price curve for static arbitrage.
//
// For calls of one expiry on strictly increasing strikes the absence of
// static arbitrage requires:
//
//   - Monotonicity: C(K) is non-increasing in K.
//   - Slope: C(K1) - C(K2) <= df*(K2 - K1) for K1 < K2, so calls never lose
//     value faster than the discounted strike difference.
//   - Convexity: every butterfly has non-negative value, which is what makes
//     the Breeden-Litzenberger density non-negative.
//
// # Usage
//
//	violations, err := arbitrage.Check(strikes, calls, df, arbitrage.WithTolerance(1e-4))
//	for _, v := range violations {
//		fmt.Printf("%s at K=%.2f by %.4f\n", v.Kind, v.Strike, v.Amount)
//	}
package arbitrage
