package models

import (
	"fmt"
	"time"
)

// Model represents a generated fashion model with its descriptive attributes
// and reference image. Models are immutable once created; they can only be
// deleted.
type Model struct {
	ID         int64     `bson:"_id,omitempty" json:"id"`
	UserID     int64     `bson:"user_id" json:"user_id"`
	Name       string    `bson:"name" json:"name"`
	Gender     string    `bson:"gender" json:"gender"`
	Ethnicity  string    `bson:"ethnicity" json:"ethnicity"`
	AgeBand    string    `bson:"age_band" json:"age_band"`       // e.g. "25-34"
	HeightBand string    `bson:"height_band" json:"height_band"` // e.g. "170-180cm"
	SkinTone   string    `bson:"skin_tone" json:"skin_tone"`
	HairColor  string    `bson:"hair_color" json:"hair_color"`
	HairStyle  string    `bson:"hair_style" json:"hair_style"`
	BodyShape  string    `bson:"body_shape" json:"body_shape"`
	FacialHair string    `bson:"facial_hair,omitempty" json:"facial_hair,omitempty"`
	ImageKey   string    `bson:"image_key" json:"image_key"` // S3 key of the reference image
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Descriptor renders the model attributes as a prompt-ready subject
// description for the synthesis gateway.
func (m Model) Descriptor() string {
	desc := fmt.Sprintf("Gender: %s, Ethnicity: %s, Age: %s, Height: %s, Skin Tone: %s, Hair: %s %s, Body Shape: %s",
		m.Gender, m.Ethnicity, m.AgeBand, m.HeightBand, m.SkinTone, m.HairColor, m.HairStyle, m.BodyShape)
	if m.FacialHair != "" {
		desc += fmt.Sprintf(", Facial Hair: %s", m.FacialHair)
	}
	return desc
}
