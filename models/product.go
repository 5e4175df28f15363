package models

// ProductRef represents a catalog product as embedded into looks once used.
// It is fetched on demand by SKU code and stored by value; this service never
// writes back to the catalog.
type ProductRef struct {
	SKU             string   `bson:"sku" json:"sku"`
	Brand           string   `bson:"brand" json:"brand"`
	Name            string   `bson:"name" json:"name"`
	MRP             string   `bson:"mrp,omitempty" json:"mrp,omitempty"` // Maximum Retail Price (List Price)
	DiscountedPrice string   `bson:"discounted_price,omitempty" json:"discounted_price,omitempty"`
	Category        string   `bson:"category,omitempty" json:"category,omitempty"`
	Images          []string `bson:"image_paths" json:"image_paths"`
	URLKey          string   `bson:"url_key,omitempty" json:"url_key,omitempty"` // Catalog page slug
}
