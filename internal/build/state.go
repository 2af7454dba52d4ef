package build

import (
	"fmt"
	"slices"

	"github.com/Simplici0/specquote/internal/catalog"
)

// State is a build in progress. It is owned by the caller and replaced, not
// modified, by Apply.
type State struct {
	Selection Selection   `json:"selection"`
	Addons    []AddonLine `json:"addons"`
}

// Action is a user command against a State.
type Action interface {
	apply(State) (State, error)
}

// SelectPart puts Item into its component slot.
type SelectPart struct {
	Item catalog.Item
}

// RemovePart empties a component slot.
type RemovePart struct {
	Category catalog.Category
}

// AddAddon appends a line for Item, or increments the existing line for the
// same item id. The quantity never exceeds the item's stock.
type AddAddon struct {
	Item catalog.Item
}

// SetAddonQuantity changes a line's quantity, clamped to [1, stock].
type SetAddonQuantity struct {
	ItemID   string
	Quantity int
}

// RemoveAddon drops the line for ItemID.
type RemoveAddon struct {
	ItemID string
}

// Reset clears the selection and all add-on lines.
type Reset struct{}

// Apply returns the state that results from performing action on s.
func Apply(s State, action Action) (State, error) {
	if action == nil {
		return State{}, ErrUnknownAction
	}
	return action.apply(s)
}

func (a SelectPart) apply(s State) (State, error) {
	sel, err := s.Selection.With(a.Item)
	if err != nil {
		return State{}, err
	}
	return State{Selection: sel, Addons: slices.Clone(s.Addons)}, nil
}

func (a RemovePart) apply(s State) (State, error) {
	if !a.Category.Component() {
		return State{}, fmt.Errorf("%w: %q", ErrNotComponent, a.Category)
	}
	return State{Selection: s.Selection.Without(a.Category), Addons: slices.Clone(s.Addons)}, nil
}

func (a AddAddon) apply(s State) (State, error) {
	if !a.Item.Category.Addon() {
		return State{}, fmt.Errorf("%w: %q (item %q)", ErrNotAddon, a.Item.Category, a.Item.ID)
	}
	if a.Item.Stock < 1 {
		return State{}, fmt.Errorf("%w: %q", ErrOutOfStock, a.Item.ID)
	}

	addons := slices.Clone(s.Addons)
	for i, line := range addons {
		if line.Item.ID == a.Item.ID {
			addons[i] = AddonLine{Item: a.Item, Quantity: min(line.Quantity+1, a.Item.Stock)}
			return State{Selection: s.Selection, Addons: addons}, nil
		}
	}
	addons = append(addons, AddonLine{Item: a.Item, Quantity: 1})
	return State{Selection: s.Selection, Addons: addons}, nil
}

func (a SetAddonQuantity) apply(s State) (State, error) {
	addons := slices.Clone(s.Addons)
	for i, line := range addons {
		if line.Item.ID == a.ItemID {
			addons[i].Quantity = max(1, min(a.Quantity, line.Item.Stock))
			return State{Selection: s.Selection, Addons: addons}, nil
		}
	}
	return State{}, fmt.Errorf("%w: %q", ErrAddonNotFound, a.ItemID)
}

func (a RemoveAddon) apply(s State) (State, error) {
	addons := slices.DeleteFunc(slices.Clone(s.Addons), func(line AddonLine) bool {
		return line.Item.ID == a.ItemID
	})
	return State{Selection: s.Selection, Addons: addons}, nil
}

func (Reset) apply(State) (State, error) {
	return State{}, nil
}
