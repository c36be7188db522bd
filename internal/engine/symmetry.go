package engine

import "fmt"

// FixOversized assigns every unit of an oversized item (longer than half a
// rod) to a rod of its own. Walking the items longest first with a running
// rod counter, each unit claims the next rod: its cut count there is fixed
// to 1 and every other oversized item's count on that rod to 0. Once an
// item's units are placed, its count is fixed to 0 on all rods not yet
// claimed. Cuts of smaller items stay free on every rod.
func FixOversized(norm Normalized) (*Fixations, error) {
	fx := NewFixations(norm.MaxRods, len(norm.Items))
	big := norm.Oversized()

	rod := 0
	for _, b := range big {
		it := norm.Items[b]
		for unit := 0; unit < it.Quantity; unit++ {
			if rod >= norm.MaxRods {
				return nil, fmt.Errorf("%w: unit %d of oversized %q needs rod %d, pool holds %d",
					ErrInvariant, unit+1, it.BarMark, rod, norm.MaxRods)
			}
			if err := fx.Fix(rod, b, 1); err != nil {
				return nil, err
			}
			for _, other := range big {
				if other == b {
					continue
				}
				if err := fx.Fix(rod, other, 0); err != nil {
					return nil, err
				}
			}
			rod++
		}
		for r := rod; r < norm.MaxRods; r++ {
			if err := fx.Fix(r, b, 0); err != nil {
				return nil, err
			}
		}
	}
	return fx, nil
}

// DedicatedRods returns how many rods FixOversized claims for norm.
func DedicatedRods(norm Normalized) int {
	n := 0
	for _, b := range norm.Oversized() {
		n += norm.Items[b].Quantity
	}
	return n
}
