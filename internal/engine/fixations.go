package engine

import "fmt"

const free = -1

// Fixations is a table of cut counts decided before the solve. The model
// builder turns every fixed cell into a variable whose bounds collapse to
// the fixed value; free cells stay decision variables.
type Fixations struct {
	cells [][]int // [rod][item], free or the fixed count
	fixed int
}

// NewFixations returns a table with every cell free.
func NewFixations(rods, items int) *Fixations {
	cells := make([][]int, rods)
	for r := range cells {
		row := make([]int, items)
		for i := range row {
			row[i] = free
		}
		cells[r] = row
	}
	return &Fixations{cells: cells}
}

// Rods returns the number of rods the table covers.
func (fx *Fixations) Rods() int {
	return len(fx.cells)
}

// Items returns the number of items the table covers.
func (fx *Fixations) Items() int {
	if len(fx.cells) == 0 {
		return 0
	}
	return len(fx.cells[0])
}

// Len returns the number of fixed cells.
func (fx *Fixations) Len() int {
	if fx == nil {
		return 0
	}
	return fx.fixed
}

// Fix sets the cut count of item on rod. Fixing a cell again to the same
// value is a no-op; a different value is an invariant violation.
func (fx *Fixations) Fix(rod, item, value int) error {
	if rod < 0 || rod >= fx.Rods() || item < 0 || item >= fx.Items() {
		return fmt.Errorf("%w: fixation (%d, %d) outside %d rods × %d items", ErrInvariant, rod, item, fx.Rods(), fx.Items())
	}
	if value < 0 {
		return fmt.Errorf("%w: negative fixation %d at (%d, %d)", ErrInvariant, value, rod, item)
	}
	switch cur := fx.cells[rod][item]; cur {
	case free:
		fx.cells[rod][item] = value
		fx.fixed++
	case value:
	default:
		return fmt.Errorf("%w: cell (%d, %d) fixed to %d, refixed to %d", ErrInvariant, rod, item, cur, value)
	}
	return nil
}

// Value returns the fixed count of a cell and whether it is fixed.
// A nil table fixes nothing.
func (fx *Fixations) Value(rod, item int) (int, bool) {
	if fx == nil || rod < 0 || rod >= fx.Rods() || item < 0 || item >= fx.Items() {
		return 0, false
	}
	v := fx.cells[rod][item]
	return v, v != free
}
