// Package compressor shrinks the sparse row-major matrices of a parsing table while keeping
// random access to every entry.
package compressor

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
)

// Compression levels. Each level includes the previous one.
const (
	// LevelNone stores every entry.
	LevelNone = 0

	// LevelUniqueRows stores each distinct row once and maps every row to its copy.
	LevelUniqueRows = 1

	// LevelRowDisplacement overlays the distinct rows in one vector so that the non-empty
	// entries of different rows never collide.
	LevelRowDisplacement = 2

	LevelMax = LevelRowDisplacement
)

// Table is a compressed matrix. Entries means a different thing at each level: all entries
// at LevelNone, the distinct rows at LevelUniqueRows, and the overlaid rows at
// LevelRowDisplacement.
type Table struct {
	Level    int   `json:"level"`
	RowCount int   `json:"row_count"`
	ColCount int   `json:"col_count"`
	Empty    int   `json:"empty"`
	Entries  []int `json:"entries"`

	// RowNums maps a row to its distinct row.
	RowNums []int `json:"row_nums,omitempty"`

	// Displacement is the offset of each distinct row in Entries, and Bounds records which
	// distinct row owns each slot.
	Displacement []int `json:"displacement,omitempty"`
	Bounds       []int `json:"bounds,omitempty"`
}

// Compress compresses a matrix with colCount columns. empty is the value that most entries
// hold; row displacement leaves it out. entries stays untouched.
func Compress(entries []int, colCount int, level int, empty int) (*Table, error) {
	if colCount <= 0 {
		return nil, errors.Errorf("the column count must be positive: %v", colCount)
	}
	if len(entries)%colCount != 0 {
		return nil, errors.Errorf("%v entries do not make rows of %v columns", len(entries), colCount)
	}
	if level < LevelNone || level > LevelMax {
		return nil, errors.Errorf("unknown compression level: %v", level)
	}

	tab := &Table{
		Level:    level,
		RowCount: len(entries) / colCount,
		ColCount: colCount,
		Empty:    empty,
	}
	if level == LevelNone {
		tab.Entries = append([]int{}, entries...)
		return tab, nil
	}

	uniqueRows, rowNums := dedupRows(entries, colCount)
	tab.RowNums = rowNums
	if level == LevelUniqueRows {
		tab.Entries = uniqueRows
		return tab, nil
	}

	tab.Entries, tab.Bounds, tab.Displacement = displaceRows(uniqueRows, colCount, empty)
	return tab, nil
}

func dedupRows(entries []int, colCount int) ([]int, []int) {
	rowCount := len(entries) / colCount
	var unique []int
	rowNums := make([]int, rowCount)
	key2RowNum := map[string]int{}
	buf := make([]byte, 0, colCount*binary.MaxVarintLen64)
	for row := 0; row < rowCount; row++ {
		r := entries[row*colCount : (row+1)*colCount]
		buf = buf[:0]
		for _, e := range r {
			buf = binary.AppendVarint(buf, int64(e))
		}
		num, ok := key2RowNum[string(buf)]
		if !ok {
			num = len(key2RowNum)
			key2RowNum[string(buf)] = num
			unique = append(unique, r...)
		}
		rowNums[row] = num
	}
	return unique, rowNums
}

const boundNone = -1

// displaceRows places the densest rows first, each at the lowest offset where its non-empty
// entries land on free slots.
func displaceRows(entries []int, colCount int, empty int) ([]int, []int, []int) {
	rowCount := len(entries) / colCount
	type row struct {
		num  int
		cols []int
	}
	rows := make([]*row, rowCount)
	for i := range rows {
		r := &row{
			num: i,
		}
		for col := 0; col < colCount; col++ {
			if entries[i*colCount+col] != empty {
				r.cols = append(r.cols, col)
			}
		}
		rows[i] = r
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	// No row is placed beyond the end of the original matrix, so these never grow.
	vec := make([]int, len(entries))
	bounds := make([]int, len(entries))
	for i := range vec {
		vec[i] = empty
		bounds[i] = boundNone
	}
	displacement := make([]int, rowCount)
	size := colCount
	for _, r := range rows {
		if len(r.cols) == 0 {
			continue
		}
		d := 0
		for !fits(bounds, d, r.cols) {
			d++
		}
		for _, col := range r.cols {
			vec[d+col] = entries[r.num*colCount+col]
			bounds[d+col] = r.num
		}
		displacement[r.num] = d
		if d+colCount > size {
			size = d + colCount
		}
	}
	return vec[:size], bounds[:size], displacement
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != boundNone {
			return false
		}
	}
	return true
}

// Lookup returns the entry at (row, col).
func (t *Table) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.RowCount || col < 0 || col >= t.ColCount {
		return t.Empty, errors.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	switch t.Level {
	case LevelUniqueRows:
		return t.Entries[t.RowNums[row]*t.ColCount+col], nil
	case LevelRowDisplacement:
		num := t.RowNums[row]
		i := t.Displacement[num] + col
		if t.Bounds[i] != num {
			return t.Empty, nil
		}
		return t.Entries[i], nil
	}
	return t.Entries[row*t.ColCount+col], nil
}

// Expand restores the original matrix.
func (t *Table) Expand() ([]int, error) {
	entries := make([]int, t.RowCount*t.ColCount)
	for row := 0; row < t.RowCount; row++ {
		for col := 0; col < t.ColCount; col++ {
			e, err := t.Lookup(row, col)
			if err != nil {
				return nil, err
			}
			entries[row*t.ColCount+col] = e
		}
	}
	return entries, nil
}
