package build

import (
	"fmt"

	"github.com/Simplici0/specquote/internal/catalog"
)

// AddonLine is a quantity-bearing extra attached to a build.
type AddonLine struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// Validate checks that the line references an add-on item and that the
// quantity lies within [1, stock].
func (l AddonLine) Validate() error {
	if !l.Item.Category.Addon() {
		return fmt.Errorf("%w: %q (item %q)", ErrNotAddon, l.Item.Category, l.Item.ID)
	}
	if l.Quantity < 1 || l.Quantity > l.Item.Stock {
		return fmt.Errorf("%w: item %q quantity %d, stock %d", ErrInvalidQuantity, l.Item.ID, l.Quantity, l.Item.Stock)
	}
	return nil
}

// ValidateAddons checks every line and that no item id appears twice.
func ValidateAddons(lines []AddonLine) error {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
		if seen[line.Item.ID] {
			return fmt.Errorf("%w: item %q", ErrDuplicateAddon, line.Item.ID)
		}
		seen[line.Item.ID] = true
	}
	return nil
}
