package state

import (
	"sort"
	"strings"
	"time"
)

type statusRecord interface {
	Identifiable
	StatusValue() string
}

type datedRecord interface {
	Identifiable
	Created() time.Time
}

// ByStatus filters items by status, case-insensitively. An empty status
// returns all items.
func ByStatus[T statusRecord](items []T, status string) []T {
	out := make([]T, 0, len(items))
	if status == "" {
		return append(out, items...)
	}
	for _, item := range items {
		if strings.EqualFold(item.StatusValue(), status) {
			out = append(out, item)
		}
	}
	return out
}

// SortedByDate returns a copy of items, newest first.
func SortedByDate[T datedRecord](items []T) []T {
	out := append(make([]T, 0, len(items)), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created().After(out[j].Created())
	})
	return out
}
