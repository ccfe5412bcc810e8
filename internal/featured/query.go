package featured

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/models"
)

type SortField string

const (
	SortFeaturedFrom  SortField = "featuredFrom"
	SortFeaturedUntil SortField = "featuredUntil"
	SortViews         SortField = "views"
	SortClicks        SortField = "clicks"
)

// sortFields maps lowercased query values to sort fields
var sortFields = map[string]SortField{
	"featuredfrom":  SortFeaturedFrom,
	"featureduntil": SortFeaturedUntil,
	"views":         SortViews,
	"clicks":        SortClicks,
}

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// StatusAll disables status filtering
const StatusAll = "all"

// Query selects and orders featured listings for the admin panel
type Query struct {
	Search string
	Status string
	SortBy SortField
	Order  SortOrder
}

// ParseQuery applies defaults and rejects unknown filter or sort values
func ParseQuery(search, status, sortBy, order string) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(search),
		Status: strings.ToLower(strings.TrimSpace(status)),
		Order:  SortOrder(strings.ToLower(strings.TrimSpace(order))),
	}
	if q.Status == "" {
		q.Status = StatusAll
	}
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		q.SortBy = SortFeaturedFrom
	} else if field, ok := sortFields[strings.ToLower(sortBy)]; ok {
		q.SortBy = field
	} else {
		q.SortBy = SortField(sortBy)
	}
	if q.Order == "" {
		q.Order = Descending
	}

	fields := map[string]string{}
	switch models.ListingStatus(q.Status) {
	case models.StatusActive, models.StatusScheduled, models.StatusExpired, StatusAll:
	default:
		fields["status"] = "status must be all, active, scheduled, or expired"
	}
	switch q.SortBy {
	case SortFeaturedFrom, SortFeaturedUntil, SortViews, SortClicks:
	default:
		fields["sortBy"] = "sortBy must be featuredFrom, featuredUntil, views, or clicks"
	}
	switch q.Order {
	case Ascending, Descending:
	default:
		fields["order"] = "order must be asc or desc"
	}
	if len(fields) > 0 {
		return Query{}, apperrors.Validation("invalid featured listing query", fields)
	}
	return q, nil
}

// Apply filters listings by search text and derived status at now, then
// sorts them stably. The input slice is not modified.
func (q Query) Apply(listings []models.FeaturedListing, now time.Time) []models.FeaturedListingView {
	out := make([]models.FeaturedListingView, 0, len(listings))
	for _, l := range listings {
		if !l.Matches(q.Search) {
			continue
		}
		view := l.ViewAt(now)
		if q.Status != StatusAll && q.Status != "" && string(view.Status) != q.Status {
			continue
		}
		out = append(out, view)
	}

	compare := comparator(q.SortBy)
	slices.SortStableFunc(out, func(a, b models.FeaturedListingView) int {
		if q.Order == Descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(field SortField) func(a, b models.FeaturedListingView) int {
	switch field {
	case SortFeaturedUntil:
		return func(a, b models.FeaturedListingView) int { return a.FeaturedUntil.Compare(b.FeaturedUntil) }
	case SortViews:
		return func(a, b models.FeaturedListingView) int { return cmp.Compare(a.Views, b.Views) }
	case SortClicks:
		return func(a, b models.FeaturedListingView) int { return cmp.Compare(a.Clicks, b.Clicks) }
	default:
		return func(a, b models.FeaturedListingView) int { return a.FeaturedFrom.Compare(b.FeaturedFrom) }
	}
}
