// Package item defines the catalog item shared by every layer of shelf.
package item

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Item is one catalog entry. Items are immutable once a catalog is loaded;
// copies handed to the selection stores are taken with Clone.
type Item struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Timestamp   Timestamp `json:"timestamp"`
	Tags        []string  `json:"tags,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// wire accepts the field aliases seen across catalog feeds.
type wire struct {
	ID               *int            `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	Image            string          `json:"image"`
	Timestamp        json.RawMessage `json:"timestamp"`
	Date             json.RawMessage `json:"date"`
	Tags             []string        `json:"tags"`
	Category         string          `json:"category"`
}

var policy = bluemonday.StrictPolicy()

func (it *Item) UnmarshalJSON(b []byte) error {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == nil {
		return fmt.Errorf("item: missing id")
	}
	raw := w.Timestamp
	if len(raw) == 0 {
		raw = w.Date
	}
	var ts Timestamp
	if len(raw) > 0 {
		if err := ts.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("item %d: %w", *w.ID, err)
		}
	}
	desc := w.Description
	if desc == "" {
		desc = w.ShortDescription
	}
	*it = Item{
		ID:          *w.ID,
		Title:       w.Title,
		Description: desc,
		Image:       w.Image,
		Timestamp:   ts,
		Tags:        w.Tags,
		Category:    w.Category,
	}
	return nil
}

// Sanitize strips markup from s and returns plain text. Decoding keeps text
// verbatim so stored selections round-trip; feeds are cleaned with Normalize.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

// Normalize returns a copy with plain-text description and a trimmed image
// URL.
func (it Item) Normalize() Item {
	cp := it.Clone()
	cp.Description = Sanitize(it.Description)
	cp.Image = strings.TrimSpace(it.Image)
	return cp
}

// Clone returns a copy that shares no memory with it.
func (it Item) Clone() Item {
	cp := it
	if it.Tags != nil {
		cp.Tags = append([]string(nil), it.Tags...)
	}
	return cp
}

// HasTag reports whether the item carries tag, ignoring case.
func (it Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (it Item) String() string {
	return fmt.Sprintf("#%d %s", it.ID, it.Title)
}
