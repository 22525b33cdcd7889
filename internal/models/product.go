package models

// Product is a hosting plan from the catalog. Read-only to the order engine;
// transactions carry a snapshot of the fields they need so later catalog edits
// cannot drift an already-placed order.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	RAM      int    `json:"ram"`  // MB
	Disk     int    `json:"disk"` // MB
	CPU      int    `json:"cpu"`  // percent of one core
	Extra    string `json:"extra"`
	Category string `json:"category"`
}

// Catalog groups products by category. Product ids are unique across the
// whole catalog, not just within a category.
type Catalog map[string][]Product
