package caliper3d

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadGrid loads a whitespace separated matrix of readings, one depth per line.
func ReadGrid(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputShape, err)
	}
	defer f.Close()
	g, err := ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r, c := g.Dims()
	DebugLog("Loaded grid from %s: depths=%d, sensors=%d", path, r, c)
	return g, nil
}

// ParseGrid reads rows of numbers from r. Blank lines are skipped, every
// other line must have the same number of columns.
func ParseGrid(r io.Reader) (*mat.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var data []float64
	rows, cols, line := 0, 0, 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d has %d columns, expected %d", ErrInputShape, line, len(fields), cols)
		}
		for _, fld := range fields {
			v, err := strconv.ParseFloat(fld, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInputShape, line, err)
			}
			if !isFinite(v) {
				return nil, fmt.Errorf("%w: line %d: non-finite reading %q", ErrInputShape, line, fld)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputShape, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: no readings", ErrInputShape)
	}
	return mat.NewDense(rows, cols, data), nil
}

// LoadPair loads the raw and the centralized grids and checks they agree in shape.
func LoadPair(rawPath, centralizedPath string) (raw, central *mat.Dense, err error) {
	raw, err = ReadGrid(rawPath)
	if err != nil {
		return nil, nil, err
	}
	central, err = ReadGrid(centralizedPath)
	if err != nil {
		return nil, nil, err
	}
	if err := sameShape(raw, central); err != nil {
		return nil, nil, err
	}
	return raw, central, nil
}

func sameShape(a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrInputShape, ar, ac, br, bc)
	}
	return nil
}
