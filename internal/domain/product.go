package domain

import "encoding/json"

// PlaceholderImageURL is served when a product has no usable image.
const PlaceholderImageURL = "https://via.placeholder.com/300x300?text=Watchify"

// Product is the canonical storefront product shape. Every product that
// reaches a handler or the catalog store has passed through the
// normalize package, so all fields here are safe to read directly.
type Product struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug,omitempty"`
	SKU                string          `json:"sku"`
	Description        string          `json:"description,omitempty"`
	ShortDescription   string          `json:"shortDescription,omitempty"`
	Price              float64         `json:"price"`
	OriginalPrice      float64         `json:"originalPrice"`
	DiscountPercentage float64         `json:"discountPercentage"`
	Status             string          `json:"status"`
	IsAvailable        bool            `json:"isAvailable"`
	IsOnSale           bool            `json:"isOnSale"`
	IsFeatured         bool            `json:"isFeatured"`
	IsNew              bool            `json:"isNew"`
	Category           Ref             `json:"category"`
	Brand              Ref             `json:"brand"`
	ViewCount          int64           `json:"viewCount"`
	ReviewCount        int64           `json:"reviewCount"`
	AverageRating      float64         `json:"averageRating"`
	DisplayOrder       int64           `json:"displayOrder"`
	Images             []string        `json:"images"`
	Image              string          `json:"image"`
	Detail             json.RawMessage `json:"detail,omitempty"`
	CreatedAt          string          `json:"createdAt,omitempty"`
	UpdatedAt          string          `json:"updatedAt,omitempty"`
}

// Ref is a lightweight reference to a category or brand.
type Ref struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Category is an active catalog category as served by the backend.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parentId,omitempty"`
}
