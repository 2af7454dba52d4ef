package catalog

import "github.com/shopspring/decimal"

// Defaults returns the built-in inventory used when no catalog has been
// imported. It panics only if the literals below are malformed.
func Defaults() []Item {
	type row struct {
		id, name, brand string
		cat             Category
		price           int64
		stock           int
		attrs           Attributes
	}
	rows := []row{
		{"cpu-1", "Ryzen 5 5600", "AMD", CPU, 4500, 10, Attributes{Socket: Declared("AM4"), TDP: Declared(65)}},
		{"cpu-2", "Core i5-12400F", "Intel", CPU, 5600, 8, Attributes{Socket: Declared("LGA1700"), TDP: Declared(65)}},
		{"mb-1", "B550M A-Pro", "MSI", Motherboard, 3200, 5, Attributes{Socket: Declared("AM4"), MemoryType: Declared(DDR4), FormFactor: Declared("mATX")}},
		{"mb-2", "B660M DS3H", "Gigabyte", Motherboard, 3600, 6, Attributes{Socket: Declared("LGA1700"), MemoryType: Declared(DDR4), FormFactor: Declared("mATX")}},
		{"ram-1", "16GB DDR4 3200", "", RAM, 1500, 20, Attributes{MemoryType: Declared(DDR4)}},
		{"gpu-1", "RTX 4060 8GB", "NVIDIA", GPU, 12900, 7, Attributes{GPULength: Declared(240)}},
		{"psu-1", "650W 80+ Bronze", "", PSU, 1690, 9, Attributes{Wattage: Declared(650)}},
		{"case-1", "ATX Mesh", "", Case, 1590, 12, Attributes{FormFactor: Declared("ATX"), GPUMaxClearance: Declared(330)}},
		{"cool-1", "Tower Air 120mm", "", Cooler, 990, 11, Attributes{}},
		{"ssd-1", "NVMe 1TB Gen3", "", SSD, 1890, 14, Attributes{}},
		{"mon-1", `27" IPS 144Hz`, "", Monitor, 5890, 6, Attributes{}},
		{"soft-1", "Windows 11 Home", "Microsoft", Software, 4290, 50, Attributes{}},
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		item, err := NewItem(r.id, r.cat, r.name, decimal.NewFromInt(r.price), r.stock, r.attrs)
		if err != nil {
			panic(err)
		}
		items = append(items, item.WithBrand(r.brand))
	}
	return items
}
