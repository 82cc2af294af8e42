package kernel

import "fulfillment/internal/pkg/errs"

// Load measures the physical footprint of items, deliveries and routes:
// weight in grams, volume in cubic centimetres, and item count. Integer
// units keep capacity comparisons exact.
type Load struct {
	weightGrams   int
	volumeCubicCm int
	items         int
}

// NewLoad creates a Load; all dimensions must be non-negative.
func NewLoad(weightGrams, volumeCubicCm, items int) (Load, error) {
	if weightGrams < 0 {
		return Load{}, errs.NewValueIsInvalidError("weight")
	}
	if volumeCubicCm < 0 {
		return Load{}, errs.NewValueIsInvalidError("volume")
	}
	if items < 0 {
		return Load{}, errs.NewValueIsInvalidError("items")
	}
	return Load{weightGrams: weightGrams, volumeCubicCm: volumeCubicCm, items: items}, nil
}

// WeightGrams returns the weight dimension.
func (l Load) WeightGrams() int { return l.weightGrams }

// VolumeCubicCm returns the volume dimension.
func (l Load) VolumeCubicCm() int { return l.volumeCubicCm }

// Items returns the item count dimension.
func (l Load) Items() int { return l.items }

// Add returns the combined load of l and other.
func (l Load) Add(other Load) Load {
	return Load{
		weightGrams:   l.weightGrams + other.weightGrams,
		volumeCubicCm: l.volumeCubicCm + other.volumeCubicCm,
		items:         l.items + other.items,
	}
}

// Fits reports whether l stays within limit on every dimension. When it
// does not, the returned error names the first exceeded dimension.
func (l Load) Fits(limit Load) error {
	if l.weightGrams > limit.weightGrams {
		return errs.NewCapacityExceededError("max_weight", limit.weightGrams, l.weightGrams)
	}
	if l.volumeCubicCm > limit.volumeCubicCm {
		return errs.NewCapacityExceededError("max_volume", limit.volumeCubicCm, l.volumeCubicCm)
	}
	if l.items > limit.items {
		return errs.NewCapacityExceededError("max_items", limit.items, l.items)
	}
	return nil
}

// IsZero reports whether all dimensions are zero.
func (l Load) IsZero() bool {
	return l.weightGrams == 0 && l.volumeCubicCm == 0 && l.items == 0
}
