package chain

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

// builder groups loaded quotes into one chain per maturity.
type builder struct {
	market core.Market
	chains map[float64]*Chain
}

func newBuilder(m core.Market) *builder {
	return &builder{market: m, chains: make(map[float64]*Chain)}
}

func (b *builder) add(underlying string, maturity float64, q Quote) error {
	if !(maturity > 0) {
		maturity = b.market.Maturity
	}

	c, ok := b.chains[maturity]
	if !ok {
		m := b.market
		m.Maturity = maturity
		c = New(underlying, m)
		b.chains[maturity] = c
	}
	if c.Underlying == "" {
		c.Underlying = underlying
	}
	return c.Add(q)
}

func (b *builder) result() ([]*Chain, error) {
	out := make([]*Chain, 0, len(b.chains))
	for _, c := range b.chains {
		if c.Len() > 0 {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyChain
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Market.Maturity < out[j].Market.Maturity })
	return out, nil
}

var columnAliases = map[string]string{
	"type":          "type",
	"kind":          "type",
	"right":         "type",
	"cp":            "type",
	"strike":        "strike",
	"k":             "strike",
	"bid":           "bid",
	"ask":           "ask",
	"last":          "last",
	"price":         "last",
	"volume":        "volume",
	"open_interest": "open_interest",
	"openinterest":  "open_interest",
	"oi":            "open_interest",
	"maturity":      "maturity",
	"t":             "maturity",
	"tau":           "maturity",
	"underlying":    "underlying",
	"symbol":        "underlying",
}

// ReadCSV loads quotes from a header-led CSV table. The type and strike
// columns are required; bid, ask, last, volume, open_interest, maturity (in
// years) and underlying are optional. Rows are grouped by maturity into one
// chain each, sorted by maturity; rows without a maturity use m.Maturity.
func ReadCSV(r io.Reader, m core.Market) ([]*Chain, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "chain: read CSV header")
	}

	cols := make(map[string]int)
	for i, h := range header {
		if canon, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[canon] = i
		}
	}
	for _, required := range []string{"type", "strike"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "column %q", required)
		}
	}

	b := newBuilder(m)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "chain: read CSV")
		}
		line, _ := cr.FieldPos(0)

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		q, maturity, err := parseRecord(field)
		if err != nil {
			return nil, errors.Wrapf(err, "chain: CSV line %d", line)
		}
		if err := b.add(field("underlying"), maturity, q); err != nil {
			return nil, errors.Wrapf(err, "chain: CSV line %d", line)
		}
	}

	return b.result()
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return int64(f), err
}

func parseRecord(field func(string) string) (Quote, float64, error) {
	var q Quote
	kind, err := bsm.ParseKind(field("type"))
	if err != nil {
		return q, 0, err
	}
	q.Kind = kind

	floats := []struct {
		name string
		dst  *float64
	}{
		{"strike", &q.Strike},
		{"bid", &q.Bid},
		{"ask", &q.Ask},
		{"last", &q.Last},
	}
	for _, f := range floats {
		v, err := parseFloat(field(f.name))
		if err != nil {
			return q, 0, errors.Wrapf(err, "column %q", f.name)
		}
		*f.dst = v
	}

	if q.Volume, err = parseInt(field("volume")); err != nil {
		return q, 0, errors.Wrap(err, `column "volume"`)
	}
	if q.OpenInterest, err = parseInt(field("open_interest")); err != nil {
		return q, 0, errors.Wrap(err, `column "open_interest"`)
	}

	maturity, err := parseFloat(field("maturity"))
	if err != nil {
		return q, 0, errors.Wrap(err, `column "maturity"`)
	}
	return q, maturity, nil
}

// WriteCSV writes chains in the layout ReadCSV accepts.
func WriteCSV(w io.Writer, chains []*Chain) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"underlying", "maturity", "type", "strike", "bid", "ask", "last", "volume", "open_interest"}); err != nil {
		return errors.Wrap(err, "chain: write CSV header")
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, c := range chains {
		for _, row := range c.Rows() {
			for _, q := range []*Quote{row.Call, row.Put} {
				if q == nil {
					continue
				}
				rec := []string{
					c.Underlying, ff(c.Market.Maturity), q.Kind.String(), ff(q.Strike),
					ff(q.Bid), ff(q.Ask), ff(q.Last),
					strconv.FormatInt(q.Volume, 10), strconv.FormatInt(q.OpenInterest, 10),
				}
				if err := cw.Write(rec); err != nil {
					return errors.Wrap(err, "chain: write CSV record")
				}
			}
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "chain: flush CSV")
}

// JSONPaths locates quote fields inside a JSON document with gjson path
// syntax. Quotes is evaluated on the document and must yield an array; the
// other fields are evaluated on each array element, except Spot which is
// evaluated on the document.
type JSONPaths struct {
	Quotes       string
	Type         string
	Strike       string
	Bid          string
	Ask          string
	Last         string
	Volume       string
	OpenInterest string
	Maturity     string
	Underlying   string
	Spot         string
}

// DefaultJSONPaths matches documents shaped like
//
//	{"underlying": "SPX", "spot": 4500, "options": [{"type": "call", "strike": 4400, ...}]}
func DefaultJSONPaths() JSONPaths {
	return JSONPaths{
		Quotes:       "options",
		Type:         "type",
		Strike:       "strike",
		Bid:          "bid",
		Ask:          "ask",
		Last:         "last",
		Volume:       "volume",
		OpenInterest: "openInterest",
		Maturity:     "maturity",
		Underlying:   "underlying",
		Spot:         "spot",
	}
}

// ReadJSON loads quotes from a JSON document. A document-level underlying
// (at paths.Underlying) is used for elements that do not carry their own,
// and a document-level spot overrides m.Spot.
func ReadJSON(data []byte, m core.Market, paths JSONPaths) ([]*Chain, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	if paths.Spot != "" {
		if spot := gjson.GetBytes(data, paths.Spot); spot.Exists() && spot.Float() > 0 {
			m.Spot = spot.Float()
		}
	}
	docUnderlying := ""
	if paths.Underlying != "" {
		docUnderlying = gjson.GetBytes(data, paths.Underlying).String()
	}

	quotes := gjson.GetBytes(data, paths.Quotes)
	if !quotes.IsArray() {
		return nil, errors.Wrapf(ErrMissingColumn, "path %q is not an array", paths.Quotes)
	}

	b := newBuilder(m)
	for i, item := range quotes.Array() {
		get := func(path string) gjson.Result {
			if path == "" {
				return gjson.Result{}
			}
			return item.Get(path)
		}

		if !get(paths.Type).Exists() || !get(paths.Strike).Exists() {
			return nil, errors.Wrapf(ErrMissingColumn, "quote %d: type and strike are required", i)
		}
		kind, err := bsm.ParseKind(get(paths.Type).String())
		if err != nil {
			return nil, errors.Wrapf(err, "chain: quote %d", i)
		}

		q := Quote{
			Kind:         kind,
			Strike:       get(paths.Strike).Float(),
			Bid:          get(paths.Bid).Float(),
			Ask:          get(paths.Ask).Float(),
			Last:         get(paths.Last).Float(),
			Volume:       get(paths.Volume).Int(),
			OpenInterest: get(paths.OpenInterest).Int(),
		}

		underlying := docUnderlying
		if u := get(paths.Underlying); u.Exists() && u.Type == gjson.String {
			underlying = u.String()
		}
		if err := b.add(underlying, get(paths.Maturity).Float(), q); err != nil {
			return nil, errors.Wrapf(err, "chain: quote %d", i)
		}
	}

	return b.result()
}
