package main

import (
	"encoding/csv"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// loadedCSV holds a parsed data file: the header row (for -verbose column
// labeling) and the row-major float data beneath it.
type loadedCSV struct {
	header []string
	rows   [][]float64
}

// readCSV reads path, treats the first row as a header, and parses every
// remaining cell as a float64. Modeled on the single-file CSV-then-fit
// pattern of loading a design matrix straight off disk before an
// exhaustive subset search.
func readCSV(path string) (*loadedCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "readCSV: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "readCSV: %s: read header", path)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "readCSV: %s: read records", path)
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("readCSV", path+": no data rows", errors.ErrEmptyData)
	}

	rows := make([][]float64, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "readCSV: %s: row %d col %d: %q is not a number", path, i, j, cell)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return &loadedCSV{header: header, rows: rows}, nil
}

// splitDesignResponse turns a loaded CSV into an (X, y) pair, with
// responseCol selecting the response column (0-based; negative means "the
// last column"). Every other column becomes a candidate predictor.
func splitDesignResponse(data *loadedCSV, responseCol int) (*mat.Dense, *mat.VecDense, []string, error) {
	n := len(data.rows)
	p := len(data.rows[0])
	if responseCol < 0 {
		responseCol = p - 1
	}
	if responseCol >= p {
		return nil, nil, nil, errors.NewValueError("splitDesignResponse", "response column index out of range")
	}

	xData := make([]float64, 0, n*(p-1))
	yData := make([]float64, n)
	var names []string
	for j, name := range data.header {
		if j == responseCol {
			continue
		}
		names = append(names, name)
	}

	for i, row := range data.rows {
		if len(row) != p {
			return nil, nil, nil, errors.NewDimensionError("splitDesignResponse", p, len(row), 0)
		}
		yData[i] = row[responseCol]
		for j, v := range row {
			if j == responseCol {
				continue
			}
			xData = append(xData, v)
		}
	}

	x := mat.NewDense(n, p-1, xData)
	y := mat.NewVecDense(n, yData)
	return x, y, names, nil
}
