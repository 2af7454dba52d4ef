// Package build holds the caller-owned state of a build in progress: the
// selected components and the add-on lines. Every operation returns a new
// value; inputs are never modified.
package build

import (
	"encoding/json"
	"fmt"

	"github.com/Simplici0/specquote/internal/catalog"
)

// Selection maps each component category to at most one chosen item. The zero
// value is the empty selection.
type Selection struct {
	items map[catalog.Category]catalog.Item
}

// NewSelection builds a selection from items, failing on an item whose category
// is not a component slot or on two items for the same slot.
func NewSelection(items ...catalog.Item) (Selection, error) {
	sel := Selection{}
	for _, item := range items {
		if _, taken := sel.Get(item.Category); taken {
			return Selection{}, fmt.Errorf("%w: %s selected twice", ErrDuplicateSlot, item.Category)
		}
		next, err := sel.With(item)
		if err != nil {
			return Selection{}, err
		}
		sel = next
	}
	return sel, nil
}

// With returns a copy of the selection with item placed in its category slot,
// replacing any previous choice.
func (s Selection) With(item catalog.Item) (Selection, error) {
	if !item.Category.Component() {
		return Selection{}, fmt.Errorf("%w: %q (item %q)", ErrNotComponent, item.Category, item.ID)
	}
	if err := item.Validate(); err != nil {
		return Selection{}, err
	}
	next := s.clone()
	next.items[item.Category] = item
	return next, nil
}

// Without returns a copy of the selection with the slot emptied.
func (s Selection) Without(c catalog.Category) Selection {
	if _, ok := s.items[c]; !ok {
		return s
	}
	next := s.clone()
	delete(next.items, c)
	return next
}

// Get returns the item selected for c.
func (s Selection) Get(c catalog.Category) (catalog.Item, bool) {
	item, ok := s.items[c]
	return item, ok
}

// Items returns the selected items in component display order.
func (s Selection) Items() []catalog.Item {
	items := make([]catalog.Item, 0, len(s.items))
	for _, c := range catalog.Components {
		if item, ok := s.items[c]; ok {
			items = append(items, item)
		}
	}
	return items
}

// Len returns the number of filled slots.
func (s Selection) Len() int {
	return len(s.items)
}

// Missing returns the categories from required that have no selection.
func (s Selection) Missing(required []catalog.Category) []catalog.Category {
	var missing []catalog.Category
	for _, c := range required {
		if _, ok := s.items[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

func (s Selection) clone() Selection {
	next := Selection{items: make(map[catalog.Category]catalog.Item, len(s.items)+1)}
	for c, item := range s.items {
		next.items[c] = item
	}
	return next
}

// MarshalJSON encodes the selection as an object keyed by category.
func (s Selection) MarshalJSON() ([]byte, error) {
	out := make(map[catalog.Category]catalog.Item, len(s.items))
	for c, item := range s.items {
		out[c] = item
	}
	return json.Marshal(out)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var raw map[catalog.Category]catalog.Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sel := Selection{}
	for c, item := range raw {
		if item.Category != c {
			return fmt.Errorf("%w: item %q is a %s, keyed as %s", ErrNotComponent, item.ID, item.Category, c)
		}
		next, err := sel.With(item)
		if err != nil {
			return err
		}
		sel = next
	}
	*s = sel
	return nil
}
