package distribution

import (
	"strconv"
	"testing"
)

func BenchmarkSummarize(b *testing.B) {
	for _, n := range []int{101, 401, 4096} {
		x, pdf := lognormal(100, 0.25)
		step := len(x) / n
		xs, ps := make([]float64, 0, n), make([]float64, 0, n)
		for i := 0; i < len(x) && len(xs) < n; i += step {
			xs = append(xs, x[i])
			ps = append(ps, pdf[i])
		}

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				Summarize(xs, ps)
			}
		})
	}
}
