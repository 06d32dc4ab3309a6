package woocommerce

// Product is the wire shape returned by the WooCommerce REST API v3. Prices
// arrive as strings and may be empty when the store has no price set.
type Product struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"short_description"`
	SKU              string      `json:"sku"`
	Price            string      `json:"price"`
	RegularPrice     string      `json:"regular_price"`
	SalePrice        string      `json:"sale_price"`
	StockQuantity    *int        `json:"stock_quantity"`
	StockStatus      string      `json:"stock_status"`
	Status           string      `json:"status"`
	Featured         bool        `json:"featured"`
	Categories       []Category  `json:"categories"`
	Tags             []Tag       `json:"tags"`
	Images           []Image     `json:"images"`
	Attributes       []Attribute `json:"attributes"`
	DateCreated      string      `json:"date_created"`
	DateModified     string      `json:"date_modified"`
}

// Category is a nested category reference on a product.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Tag is a nested tag reference on a product.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Image is a nested image reference on a product.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Attribute is a nested attribute with its options.
type Attribute struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

// Page is one page of the product listing plus the pagination headers the
// API returns alongside it.
type Page struct {
	Products   []Product
	Total      int
	TotalPages int
	HasMore    bool
}
