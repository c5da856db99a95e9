// Package fit measures how well a density reproduces the option prices it
// was estimated from.
//
// A density f with discount factor df reprices a call as
//
//	C(K) = df * int max(x-K, 0) f(x) dx
//
// and the residuals against market prices summarise estimation error in
// price units:
//
//   - RMSE: root mean squared residual
//   - MAE: mean absolute residual
//   - MaxAbs: largest absolute residual and the strike where it occurs
//
// # Usage
//
//	analyzer := fit.NewAnalyzer()
//	metrics, err := analyzer.Analyze(d, strikes, calls)
//	fmt.Printf("RMSE = %.4f over %d strikes\n", metrics.RMSE, metrics.N)
package fit
