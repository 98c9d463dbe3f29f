package tours

import (
	"strconv"
	"strings"
)

// RangeFilter holds numeric comparison bounds parsed from query params like
// price[gte]=500. A bare param (price=500) becomes an equality match.
type RangeFilter struct {
	Eq  *float64
	Gte *float64
	Gt  *float64
	Lte *float64
	Lt  *float64
}

// IsZero reports whether no bound is set
func (r RangeFilter) IsZero() bool {
	return r.Eq == nil && r.Gte == nil && r.Gt == nil && r.Lte == nil && r.Lt == nil
}

// ListToursRequest represents a list tours query
type ListToursRequest struct {
	Difficulty     string
	Duration       RangeFilter
	Price          RangeFilter
	RatingsAverage RangeFilter
	MaxGroupSize   RangeFilter
	Sort           string // comma-separated API field names, "-" prefix for descending
	Fields         string // comma-separated API field names to project
	Page           int
	Limit          int
}

// ListToursResponse represents a page of tours
type ListToursResponse struct {
	Status  string  `json:"status" example:"success"`
	Results int     `json:"results" example:"9"`
	Total   int64   `json:"total" example:"9"`
	Tours   []*Tour `json:"tours"`
}

// FieldToBSON maps API field names (as used in sort/fields/filter query
// params) to their stored BSON names.
var FieldToBSON = map[string]string{
	"name":            "name",
	"slug":            "slug",
	"duration":        "duration",
	"maxGroupSize":    "max_group_size",
	"difficulty":      "difficulty",
	"ratingsAverage":  "ratings_average",
	"ratingsQuantity": "ratings_quantity",
	"price":           "price",
	"priceDiscount":   "price_discount",
	"summary":         "summary",
	"description":     "description",
	"imageCover":      "image_cover",
	"createdAt":       "created_at",
}

// rangeOps are the supported bracketed comparison operators
var rangeOps = []string{"gte", "gt", "lte", "lt"}

// ParseListQuery builds a ListToursRequest from raw query params. Unknown
// keys are ignored; malformed numeric values yield ErrInvalidFilter.
func ParseListQuery(query map[string]string) (ListToursRequest, error) {
	req := ListToursRequest{}

	ranged := map[string]*RangeFilter{
		"duration":       &req.Duration,
		"price":          &req.Price,
		"ratingsAverage": &req.RatingsAverage,
		"maxGroupSize":   &req.MaxGroupSize,
	}

	for key, value := range query {
		switch key {
		case "difficulty":
			req.Difficulty = value
			continue
		case "sort":
			req.Sort = value
			continue
		case "fields":
			req.Fields = value
			continue
		case "page":
			n, err := strconv.Atoi(value)
			if err != nil {
				return req, ErrInvalidFilter
			}
			req.Page = n
			continue
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil {
				return req, ErrInvalidFilter
			}
			req.Limit = n
			continue
		}

		field, op := splitRangeKey(key)
		filter, ok := ranged[field]
		if !ok {
			continue // unknown params pass through harmlessly
		}

		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return req, ErrInvalidFilter
		}

		switch op {
		case "":
			filter.Eq = &n
		case "gte":
			filter.Gte = &n
		case "gt":
			filter.Gt = &n
		case "lte":
			filter.Lte = &n
		case "lt":
			filter.Lt = &n
		}
	}

	return req, nil
}

// splitRangeKey splits "price[gte]" into ("price", "gte"); a key without a
// recognized bracket suffix comes back with an empty op.
func splitRangeKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	candidate := key[open+1 : len(key)-1]
	for _, known := range rangeOps {
		if candidate == known {
			return key[:open], candidate
		}
	}
	return key, ""
}
