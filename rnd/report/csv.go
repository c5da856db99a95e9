package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-rnd/rnd/density"
)

// WriteDensityCSV writes strike, pdf and cdf columns.
func WriteDensityCSV(w io.Writer, d *density.Density) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"strike", "pdf", "cdf"}); err != nil {
		return errors.Wrap(err, "report: write CSV header")
	}

	cdf := d.CDF()
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	for i, K := range d.Strikes {
		c := 0.0
		if cdf != nil {
			c = cdf[i]
		}
		if err := cw.Write([]string{ff(K), ff(d.PDF[i]), ff(c)}); err != nil {
			return errors.Wrap(err, "report: write CSV record")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "report: flush CSV")
}
