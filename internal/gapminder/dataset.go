// Package gapminder loads the gapminder five-year dataset the demo pages plot.
package gapminder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Row is one country in one year.
type Row struct {
	Country   string
	Year      int
	Pop       float64
	Continent string
	LifeExp   float64
	GDPPercap float64
}

// Dataset is the parsed CSV, in file order. It is read-only once parsed.
type Dataset struct {
	Rows []Row
}

// errMalformed marks content that is not the expected CSV, as opposed to a
// failure reading it.
var errMalformed = errors.New("malformed dataset")

var columns = []string{"country", "year", "pop", "continent", "lifeExp", "gdpPercap"}

// Parse reads the CSV format of gapminderDataFiveYear.csv. Columns are looked
// up by header name, so their order does not matter.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", errMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", readErr(err))
	}
	idx := make(map[string]int, len(columns))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", errMalformed, c)
		}
	}

	ds := &Dataset{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+1, readErr(err))
		}
		row, err := parseRow(rec, idx)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %w", errMalformed, line, err)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// readErr marks csv syntax errors as malformed content; other errors come
// from the underlying reader.
func readErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", errMalformed, err)
	}
	return err
}

func parseRow(rec []string, idx map[string]int) (Row, error) {
	year, err := strconv.Atoi(rec[idx["year"]])
	if err != nil {
		return Row{}, fmt.Errorf("year: %w", err)
	}
	row := Row{
		Country:   rec[idx["country"]],
		Year:      year,
		Continent: rec[idx["continent"]],
	}
	for _, f := range []struct {
		col string
		dst *float64
	}{
		{"pop", &row.Pop},
		{"lifeExp", &row.LifeExp},
		{"gdpPercap", &row.GDPPercap},
	} {
		v, err := strconv.ParseFloat(rec[idx[f.col]], 64)
		if err != nil {
			return Row{}, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = v
	}
	return row, nil
}

// Years returns the distinct years, ascending.
func (d *Dataset) Years() []int {
	var years []int
	for _, r := range d.Rows {
		if !slices.Contains(years, r.Year) {
			years = append(years, r.Year)
		}
	}
	slices.Sort(years)
	return years
}

// ByYear returns the rows of year, in file order.
func (d *Dataset) ByYear(year int) []Row {
	var rows []Row
	for _, r := range d.Rows {
		if r.Year == year {
			rows = append(rows, r)
		}
	}
	return rows
}

// Continents returns the distinct continents of rows in order of first
// appearance.
func Continents(rows []Row) []string {
	var out []string
	for _, r := range rows {
		if !slices.Contains(out, r.Continent) {
			out = append(out, r.Continent)
		}
	}
	return out
}

// MeanLifeExp returns the mean life expectancy per continent of rows, keyed
// like Continents.
func MeanLifeExp(rows []Row) map[string]float64 {
	sum := make(map[string]float64)
	n := make(map[string]int)
	for _, r := range rows {
		sum[r.Continent] += r.LifeExp
		n[r.Continent]++
	}
	for c := range sum {
		sum[c] /= float64(n[c])
	}
	return sum
}
