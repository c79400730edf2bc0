package models

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// SearchLimit caps every event search.
const SearchLimit = 500

// BuildSearchFilter turns filters into a Mongo query. Present conditions are
// joined with $and; with no conditions the filter matches every document.
func BuildSearchFilter(filters EventFilters) bson.D {
	conditions := bson.A{}

	if len(filters.Categories) > 0 {
		categories := make(bson.A, 0, len(filters.Categories))
		for _, c := range filters.Categories {
			categories = append(categories, string(c))
		}
		conditions = append(conditions, bson.D{{Key: "category", Value: bson.D{{Key: "$in", Value: categories}}}})
	}

	if q := strings.TrimSpace(filters.SearchQuery); q != "" {
		conditions = append(conditions, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: q}}}})
	}

	if b := filters.Bounds; b != nil {
		box := bson.A{
			bson.A{b.SouthWest[0], b.SouthWest[1]},
			bson.A{b.NorthEast[0], b.NorthEast[1]},
		}
		conditions = append(conditions, bson.D{{Key: "location.coordinates", Value: bson.D{
			{Key: "$geoWithin", Value: bson.D{{Key: "$box", Value: box}}},
		}}})
	}

	if len(conditions) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: conditions}}
}

// ParseBounds reads "swLat,swLng,neLat,neLng". Anything else yields nil so a
// malformed value drops the area restriction instead of failing the request.
func ParseBounds(raw string) *Bounds {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		v[i] = f
	}
	return &Bounds{
		SouthWest: Coordinates{v[0], v[1]},
		NorthEast: Coordinates{v[2], v[3]},
	}
}

// ParseCategories splits a comma separated list, dropping blanks and duplicates.
func ParseCategories(raw string) []Category {
	var out []Category
	seen := make(map[Category]bool)
	for _, p := range strings.Split(raw, ",") {
		c := Category(strings.TrimSpace(p))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
