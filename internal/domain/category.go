package domain

import "time"

// Category groups products. Name is the programmatic key used in catalog
// filters; FriendlyName is the label shown to shoppers.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FriendlyName *string   `json:"friendly_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns FriendlyName when set and Name otherwise.
func (c *Category) DisplayName() string {
	if c.FriendlyName != nil && *c.FriendlyName != "" {
		return *c.FriendlyName
	}
	return c.Name
}
