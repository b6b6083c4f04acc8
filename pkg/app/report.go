package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/shelf/pkg/filter"
	"tableflip.dev/shelf/pkg/item"
)

// ReportItem is a catalog item published inside the report window, with
// whether it is already in the cart or bookmarked.
type ReportItem struct {
	Item       item.Item
	InCart     bool
	Bookmarked bool
}

// ReportSection groups items by category.
type ReportSection struct {
	Category string
	Items    []ReportItem
}

// ReportResult summarises what was published between Since and Until.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Uncategorized names the section for items without a category.
const Uncategorized = "other"

// Report returns the catalog items published in the last window, grouped by
// category in lexical order. Items keep catalog order inside a section.
func (s *Service) Report(ctx context.Context, window time.Duration) (ReportResult, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	until := s.now()
	res := ReportResult{Since: until.Add(-window), Until: until}
	if window <= 0 {
		res.Since = time.Time{}
	}

	inCart := idSet(s.Cart.List(ctx))
	marked := map[int]bool{}
	if s.Session.IsAuthorized() {
		marked = idSet(s.Bookmarks.List(ctx))
	}

	grouped := make(map[string][]ReportItem)
	for _, it := range filter.Within(items, until, window) {
		cat := it.Category
		if cat == "" {
			cat = Uncategorized
		}
		grouped[cat] = append(grouped[cat], ReportItem{
			Item:       it,
			InCart:     inCart[it.ID],
			Bookmarked: marked[it.ID],
		})
		res.Total++
	}
	if len(grouped) == 0 {
		return res, nil
	}

	categories := make([]string, 0, len(grouped))
	for cat := range grouped {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		res.Sections = append(res.Sections, ReportSection{Category: cat, Items: grouped[cat]})
	}
	return res, nil
}

func idSet(entries []item.Item) map[int]bool {
	out := make(map[int]bool, len(entries))
	for _, e := range entries {
		out[e.ID] = true
	}
	return out
}
