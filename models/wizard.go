package models

import "fmt"

// DefaultOrderColor is used when a record carries an order outside the
// known set; the site's gold accent.
const DefaultOrderColor = "#ffd700"

// OrderColors maps each order to its display color.
var OrderColors = map[string]string{
	"Flame":    "#ff4500",
	"Radiant":  "#ffd700",
	"Deep":     "#1e90ff",
	"Wild":     "#228b22",
	"Arcane":   "#7b54c9",
	"Heart":    "#c55bb7",
	"Wanderer": "#7b54c9",
}

// Wizard is one record of the showcase collection. The set is loaded once
// at startup and never mutated; optional attributes are pointers so a
// missing field is distinguishable from an empty one.
type Wizard struct {
	Id             int     `json:"id" validate:"required,gt=0"`
	Rank           int     `json:"rank" validate:"gte=0"`
	Order          string  `json:"order" validate:"required"`
	SuggestedName  *string `json:"suggestedName,omitempty"`
	SuggestedStory *string `json:"suggestedStory,omitempty"`
	Fur            string  `json:"fur" validate:"required"`
	Pattern        string  `json:"pattern" validate:"required"`
	Eyes           string  `json:"eyes" validate:"required"`
	Clothes        *string `json:"clothes,omitempty"`
	Mouth          *string `json:"mouth,omitempty"`
	Realm          string  `json:"realm" validate:"required"`
	Image          string  `json:"image" validate:"required"`
	Marketplace    *string `json:"marketplace,omitempty" validate:"omitempty,url"`
	Twitter        *string `json:"twitter,omitempty"`
}

// DisplayName returns the suggested name, or the generated fallback label.
func (w Wizard) DisplayName() string {
	if w.SuggestedName != nil && *w.SuggestedName != "" {
		return *w.SuggestedName
	}
	return fmt.Sprintf("Wizard #%d", w.Id)
}

// OrderColor returns the display color for the record's order.
func (w Wizard) OrderColor() string {
	if c, ok := OrderColors[w.Order]; ok {
		return c
	}
	return DefaultOrderColor
}

// Story returns the lore text, or "" when absent.
func (w Wizard) Story() string {
	if w.SuggestedStory == nil {
		return ""
	}
	return *w.SuggestedStory
}
