package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Price is the stored price text. Documents written by older clients may
// hold a bare JSON number, so both forms decode.
type Price string

// UnmarshalJSON accepts a JSON string or number.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// MenuItem represents a dish or drink on the menu.
type MenuItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        Price     `json:"price"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"imageUrl"`
	IsBestSeller bool      `json:"isBestSeller,omitempty"`
	CreatedAt    Timestamp `json:"createdAt,omitzero"`
	UpdatedAt    Timestamp `json:"updatedAt,omitzero"`
}

// MenuItemInput is the payload for creating a menu item.
type MenuItemInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        Price  `json:"price"`
	Category     string `json:"category"`
	ImageURL     string `json:"imageUrl"`
	IsBestSeller bool   `json:"isBestSeller"`
}

// MenuItemPatch carries the fields to merge into an existing menu item.
// Nil fields are left untouched.
type MenuItemPatch struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Price        *Price  `json:"price,omitempty"`
	Category     *string `json:"category,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	IsBestSeller *bool   `json:"isBestSeller,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *MenuItemPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.ImageURL == nil && p.IsBestSeller == nil
}

// MenuFilter narrows a menu listing.
type MenuFilter struct {
	Category       string
	Query          string
	BestSellerOnly bool
}

// Matches reports whether item passes the filter. Query matching is
// case-insensitive over title and description.
func (f MenuFilter) Matches(item MenuItem) bool {
	if f.Category != "" && f.Category != "ALL" && item.Category != f.Category {
		return false
	}
	if f.BestSellerOnly && !item.IsBestSeller {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Description), q)
}

// MenuItemView is a menu item as returned by the API.
type MenuItemView struct {
	MenuItem
	PriceFormatted string `json:"priceFormatted"`
}

// NewMenuItemView renders the display price next to the stored fields.
func NewMenuItemView(item MenuItem) MenuItemView {
	return MenuItemView{
		MenuItem:       item,
		PriceFormatted: FormatPrice(string(item.Price)),
	}
}

// NewMenuItemViews converts a slice of items.
func NewMenuItemViews(items []MenuItem) []MenuItemView {
	views := make([]MenuItemView, len(items))
	for i, item := range items {
		views[i] = NewMenuItemView(item)
	}
	return views
}

// ParseBool reads an optional boolean query or form value.
func ParseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
