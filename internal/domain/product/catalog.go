// internal/domain/product/catalog.go
package product

// catalog is the fixed demo inventory of the storefront.
var catalog = []Product{
	{
		ID:          "1",
		Name:        `MacBook Pro 16"`,
		Description: "Apple M1 Pro, 16GB RAM, 512GB SSD",
		Price:       2399,
		Image:       "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1626&q=80",
		Category:    "laptops",
		Rating:      4.9,
		InStock:     true,
	},
	{
		ID:          "2",
		Name:        "iPhone 14 Pro",
		Description: "256GB, Deep Purple",
		Price:       1099,
		Image:       "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1626&q=80",
		Category:    "smartphones",
		Rating:      4.8,
		InStock:     true,
	},
	{
		ID:          "3",
		Name:        "Samsung Galaxy S23 Ultra",
		Description: "512GB, Phantom Black",
		Price:       1299,
		Image:       "https://images.unsplash.com/photo-1610945415295-d9bbf067e59c?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1626&q=80",
		Category:    "smartphones",
		Rating:      4.7,
		InStock:     true,
	},
	{
		ID:          "4",
		Name:        "Dell XPS 15",
		Description: "Intel i9, 32GB RAM, 1TB SSD, RTX 3050 Ti",
		Price:       2199,
		Image:       "https://images.unsplash.com/photo-1593642632823-8f785ba67e45?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1626&q=80",
		Category:    "laptops",
		Rating:      4.6,
		InStock:     true,
	},
	{
		ID:          "5",
		Name:        `iPad Pro 12.9"`,
		Description: "M2 chip, 256GB, Space Gray",
		Price:       1099,
		Image:       "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1650&q=80",
		Category:    "tablets",
		Rating:      4.8,
		InStock:     true,
	},
	{
		ID:          "6",
		Name:        "Sony WH-1000XM5",
		Description: "Wireless Noise Cancelling Headphones",
		Price:       399,
		Image:       "https://images.unsplash.com/photo-1618366712010-f4ae9c647dcb?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1626&q=80",
		Category:    "accessories",
		Rating:      4.9,
		InStock:     true,
	},
	{
		ID:          "7",
		Name:        "Custom Gaming PC",
		Description: "RTX 4080, i9-13900K, 64GB RAM, 2TB NVMe",
		Price:       3499,
		Image:       "https://images.unsplash.com/photo-1587202372775-e229f172b9d7?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1650&q=80",
		Category:    "desktops",
		Rating:      4.7,
		InStock:     false,
	},
	{
		ID:          "8",
		Name:        "Apple Watch Series 8",
		Description: "45mm, Cellular, Stainless Steel Case",
		Price:       699,
		Image:       "https://images.unsplash.com/photo-1579586337278-3befd40fd17a?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1652&q=80",
		Category:    "accessories",
		Rating:      4.5,
		InStock:     true,
	},
}

// Catalog returns a copy of the full product list.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}
