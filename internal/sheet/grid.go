package sheet

import "fmt"

// Grid is an ordered list of columns sharing one row count.
type Grid struct {
	columns []*Column
	rows    int
}

// NewGrid creates an empty grid whose columns will have rows slots.
func NewGrid(rows int) (*Grid, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: grid needs at least one row, got %d", ErrInvalidArgument, rows)
	}
	return &Grid{rows: rows}, nil
}

// AddColumn appends an empty column.
func (g *Grid) AddColumn(label string) error {
	c, err := NewColumn(label, g.rows)
	if err != nil {
		return err
	}
	g.columns = append(g.columns, c)
	return nil
}

// RemoveColumn deletes the column at i. Only empty columns can be removed.
func (g *Grid) RemoveColumn(i int) error {
	c, err := g.Column(i)
	if err != nil {
		return err
	}
	if c.OccupiedCount() > 0 {
		return fmt.Errorf("%w: %q has %d booking(s)", ErrNonemptyColumn, c.Label(), c.OccupiedCount())
	}
	g.columns = append(g.columns[:i], g.columns[i+1:]...)
	return nil
}

// Column returns the column at i.
func (g *Grid) Column(i int) (*Column, error) {
	if i < 0 || i >= len(g.columns) {
		return nil, fmt.Errorf("%w: column %d (columns %d)", ErrIndexOutOfRange, i, len(g.columns))
	}
	return g.columns[i], nil
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (g *Grid) Columns() []*Column {
	return append([]*Column(nil), g.columns...)
}

// Len returns the number of columns.
func (g *Grid) Len() int { return len(g.columns) }

// RowCount returns the number of rows shared by every column.
func (g *Grid) RowCount() int { return g.rows }
