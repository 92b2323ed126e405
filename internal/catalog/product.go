package catalog

// Product is a catalog entry as the settlement engine sees it: immutable,
// owned by the catalog, priced in rupiah minor units.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	SellPrice int64  `json:"sellPrice"`
	CostPrice int64  `json:"costPrice"`
	Stock     int    `json:"stock"`
}
