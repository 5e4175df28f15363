package models

import "time"

// Look is the durable result of applying an ordered list of products onto a
// model image. FinalImage is the primary image; Variations hold alternate
// generated images, any of which may be promoted to primary. The product
// order reflects the application order that produced the primary image.
type Look struct {
	ID         int64        `bson:"_id,omitempty" json:"id"`
	UserID     int64        `bson:"user_id" json:"user_id"`
	ModelID    int64        `bson:"model_id,omitempty" json:"model_id,omitempty"`
	ModelImage string       `bson:"model_image" json:"model_image"` // starting image, snapshotted at run time
	Products   []ProductRef `bson:"products" json:"products"`
	FinalImage string       `bson:"final_image" json:"final_image"`
	Variations []string     `bson:"variations,omitempty" json:"variations,omitempty"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
}

// HasVariation reports whether image is a member of the variation set.
func (l Look) HasVariation(image string) bool {
	for _, v := range l.Variations {
		if v == image {
			return true
		}
	}
	return false
}

// Lookboard is a named, shareable collection of looks. PublicID is globally
// unique and immutable once assigned.
type Lookboard struct {
	ID         int64     `bson:"_id,omitempty" json:"id"`
	UserID     int64     `bson:"user_id" json:"user_id"`
	PublicID   string    `bson:"public_id" json:"public_id"`
	Title      string    `bson:"title" json:"title"`
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`
	Visibility string    `bson:"visibility" json:"visibility"` // "public" or "private"
	LookIDs    []int64   `bson:"look_ids" json:"look_ids"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
