package store

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/sframe/core"
)

// Store is an immutable, column-major table of equally long columns.
type Store struct {
	columns []Column
	rows    int
}

// New builds a store from columns of equal length.
func New(columns ...Column) (*Store, error) {
	rows := 0
	for i, c := range columns {
		if c == nil {
			return nil, core.NewStructuralError("new store", "column %d is nil", i)
		}
		if i == 0 {
			rows = c.Len()
			continue
		}
		if c.Len() != rows {
			return nil, core.NewStructuralError("new store", "column %d has %d rows, expected %d", i, c.Len(), rows)
		}
	}
	return &Store{columns: append([]Column(nil), columns...), rows: rows}, nil
}

// Empty returns a store with rows rows and no columns.
func Empty(rows int) *Store {
	return &Store{rows: rows}
}

// RowCount returns the number of rows.
func (s *Store) RowCount() int { return s.rows }

// ColumnCount returns the number of columns.
func (s *Store) ColumnCount() int { return len(s.columns) }

// Shape returns rows and columns.
func (s *Store) Shape() core.Shape { return core.Shape{Rows: s.rows, Cols: len(s.columns)} }

// Column returns the column at position i.
func (s *Store) Column(i int) Column { return s.columns[i] }

// Columns returns all columns. The slice must not be modified.
func (s *Store) Columns() []Column { return s.columns }

// ExtractRows returns a store holding the rows at positions, in order.
// Positions may repeat.
func (s *Store) ExtractRows(positions []int) (*Store, error) {
	for _, p := range positions {
		if p < 0 || p >= s.rows {
			return nil, core.NewKeyError(p)
		}
	}
	out := &Store{columns: make([]Column, len(s.columns)), rows: len(positions)}
	for i, c := range s.columns {
		out.columns[i] = c.Take(positions)
	}
	return out, nil
}

// Mask returns the rows whose bit is set. The mask length must equal the
// row count.
func (s *Store) Mask(mask *bitset.BitSet) (*Store, error) {
	positions, err := MaskPositions(mask, s.rows)
	if err != nil {
		return nil, err
	}
	return s.ExtractRows(positions)
}

// MaskPositions returns the set bits of a row mask of length rows.
func MaskPositions(mask *bitset.BitSet, rows int) ([]int, error) {
	if mask == nil || mask.Len() != uint(rows) {
		return nil, core.NewStructuralError("mask", "mask length does not match %d rows", rows)
	}
	out := make([]int, 0, mask.Count())
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out, nil
}

// Concat stacks stores vertically. All stores need the same number of
// columns with matching types.
func Concat(stores ...*Store) (*Store, error) {
	if len(stores) == 0 {
		return nil, core.NewStructuralError("concat", "no stores")
	}
	out := stores[0]
	for _, next := range stores[1:] {
		if next.ColumnCount() != out.ColumnCount() {
			return nil, core.NewStructuralError("concat", "got %d columns, expected %d", next.ColumnCount(), out.ColumnCount())
		}
		merged := &Store{columns: make([]Column, len(out.columns)), rows: out.rows + next.rows}
		for i, c := range out.columns {
			col, err := c.appendColumn(next.columns[i])
			if err != nil {
				return nil, err
			}
			merged.columns[i] = col
		}
		out = merged
	}
	return out, nil
}

// Row returns the values of row i across all columns.
func (s *Store) Row(i int) []any {
	out := make([]any, len(s.columns))
	for c, col := range s.columns {
		out[c] = col.Value(i)
	}
	return out
}

// NBytes estimates the resident size of all column data.
func (s *Store) NBytes() int {
	n := 0
	for _, c := range s.columns {
		n += c.NBytes()
	}
	return n
}

// Equals reports whether both stores hold equal columns.
func (s *Store) Equals(other *Store) bool {
	if other == nil || s.rows != other.rows || len(s.columns) != len(other.columns) {
		return false
	}
	for i, c := range s.columns {
		if !c.equal(other.columns[i]) {
			return false
		}
	}
	return true
}
