package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a purchasable part. Items are value objects; nothing in the engine
// modifies one after construction.
type Item struct {
	ID       string
	Category Category
	Name     string
	Brand    string
	Price    decimal.Decimal
	// Cost is the purchase cost, used only for profit estimation.
	Cost  Attr[decimal.Decimal]
	Stock int
	Specs Specs
}

// NewItem validates the fields and builds the Specs variant for the category.
func NewItem(id string, category Category, name string, price decimal.Decimal, stock int, attrs Attributes) (Item, error) {
	item := Item{
		ID:       strings.TrimSpace(id),
		Category: category,
		Name:     strings.TrimSpace(name),
		Price:    price,
		Stock:    stock,
	}
	attrs, err := attrs.normalize()
	if err != nil {
		return Item{}, fmt.Errorf("item %q: %w", item.ID, err)
	}
	specs, err := SpecsFor(category, attrs)
	if err != nil {
		return Item{}, fmt.Errorf("item %q: %w", item.ID, err)
	}
	item.Specs = specs
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// WithCost returns a copy of the item with an explicit purchase cost.
func (i Item) WithCost(cost decimal.Decimal) Item {
	i.Cost = Declared(cost)
	return i
}

// WithBrand returns a copy of the item with the brand set.
func (i Item) WithBrand(brand string) Item {
	i.Brand = strings.TrimSpace(brand)
	return i
}

// Validate checks the invariants every catalog item must hold.
func (i Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if i.Name == "" {
		return fmt.Errorf("%w: item %q: name is required", ErrInvalidItem, i.ID)
	}
	if !i.Category.Valid() {
		return fmt.Errorf("item %q: %w: %q", i.ID, ErrUnknownCategory, i.Category)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("item %q: %w: price=%s", i.ID, ErrNegativeValue, i.Price)
	}
	if cost, ok := i.Cost.Get(); ok && cost.IsNegative() {
		return fmt.Errorf("item %q: %w: cost=%s", i.ID, ErrNegativeValue, cost)
	}
	if i.Stock < 0 {
		return fmt.Errorf("item %q: %w: stock=%d", i.ID, ErrNegativeValue, i.Stock)
	}
	if i.Specs == nil || !i.Specs.fits(i.Category) {
		return fmt.Errorf("%w: item %q: specs %T do not describe a %s", ErrInvalidItem, i.ID, i.Specs, i.Category)
	}
	return nil
}

// Attributes returns the flat attribute view of the item's specs.
func (i Item) Attributes() Attributes {
	if i.Specs == nil {
		return Attributes{}
	}
	return Flatten(i.Specs)
}

type itemJSON struct {
	ID       string                `json:"id"`
	Category Category              `json:"category"`
	Name     string                `json:"name"`
	Brand    string                `json:"brand,omitempty"`
	Price    decimal.Decimal       `json:"price"`
	Cost     Attr[decimal.Decimal] `json:"cost"`
	Stock    int                   `json:"stock"`
	Attributes
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		ID:         i.ID,
		Category:   i.Category,
		Name:       i.Name,
		Brand:      i.Brand,
		Price:      i.Price,
		Cost:       i.Cost,
		Stock:      i.Stock,
		Attributes: i.Attributes(),
	})
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := NewItem(raw.ID, raw.Category, raw.Name, raw.Price, raw.Stock, raw.Attributes)
	if err != nil {
		return err
	}
	item.Brand = raw.Brand
	item.Cost = raw.Cost
	if err := item.Validate(); err != nil {
		return err
	}
	*i = item
	return nil
}
