package entity

import "time"

// DefaultBeerImageURL is used when a beer is created without an image.
const DefaultBeerImageURL = "https://images.punkapi.com/v2/2.png"

type Beer struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Tagline          string    `json:"tagline"`
	Description      string    `json:"description"`
	FirstBrewed      time.Time `json:"first_brewed"`
	BrewersTips      string    `json:"brewers_tips"`
	AttenuationLevel float64   `json:"attenuation_level"`
	ContributedBy    string    `json:"contributed_by"`
	ImageURL         string    `json:"image_url"`
	OwnerID          string    `json:"owner,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
