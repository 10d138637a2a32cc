// Package ranking keeps the 1-based positions of season-scoped lists dense.
//
// Every partition (season) holds positions 1..N with no gaps or duplicates. The
// functions here never write anything; they return the full item list after the
// operation plus the items whose position changed so the caller can persist exactly
// those.
package ranking

import (
	"errors"
	"slices"
	"strings"

	"github.com/mww/washed_up/model"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrBadDirection = errors.New("unknown move direction")
)

// Ranked is an item that occupies a position within a partition.
type Ranked[T any] interface {
	RankID() string
	RankPosition() int
	RankPartition() string
	// WithPosition returns a copy of the item at the new position.
	WithPosition(pos int) T
}

// Partition returns the items of one partition ordered by position. Ties only happen
// when an earlier writer broke the invariant and are ordered by id.
func Partition[T Ranked[T]](items []T, key string) []T {
	result := make([]T, 0, len(items))
	for _, it := range items {
		if it.RankPartition() == key {
			result = append(result, it)
		}
	}
	slices.SortStableFunc(result, func(a, b T) int {
		if a.RankPosition() != b.RankPosition() {
			return a.RankPosition() - b.RankPosition()
		}
		return strings.Compare(a.RankID(), b.RankID())
	})
	return result
}

// Insert appends item to the end of its partition.
func Insert[T Ranked[T]](items []T, item T) ([]T, T) {
	n := 0
	for _, it := range items {
		if it.RankPartition() == item.RankPartition() {
			n++
		}
	}
	item = item.WithPosition(n + 1)

	result := make([]T, 0, len(items)+1)
	result = append(result, items...)
	return append(result, item), item
}

// Remove deletes the item with the given id and closes the gap it leaves in its
// partition. The changed items are the ones that moved up a slot.
func Remove[T Ranked[T]](items []T, id string) ([]T, []T, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, nil, ErrItemNotFound
	}
	key := items[idx].RankPartition()

	remaining := make([]T, 0, len(items)-1)
	remaining = append(remaining, items[:idx]...)
	remaining = append(remaining, items[idx+1:]...)

	changed := resequence(Partition(remaining, key))
	return replace(remaining, changed), changed, nil
}

// Move swaps the item with its neighbour in the given direction. Moving the first item
// up or the last item down is a no-op and returns no changes.
func Move[T Ranked[T]](items []T, id string, dir model.Direction) ([]T, []T, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, nil, ErrItemNotFound
	}

	part := Partition(items, items[idx].RankPartition())
	i := indexOf(part, id)

	var j int
	switch dir {
	case model.DIR_UP:
		j = i - 1
	case model.DIR_DOWN:
		j = i + 1
	default:
		return nil, nil, ErrBadDirection
	}

	if j < 0 || j >= len(part) {
		return slices.Clone(items), nil, nil
	}

	part[i], part[j] = part[j], part[i]
	changed := resequence(part)
	return replace(items, changed), changed, nil
}

// resequence assigns index+1 to every item in an ordered partition and returns the
// items whose position value actually changed.
func resequence[T Ranked[T]](part []T) []T {
	var changed []T
	for i, it := range part {
		if it.RankPosition() != i+1 {
			changed = append(changed, it.WithPosition(i+1))
		}
	}
	return changed
}

func replace[T Ranked[T]](items []T, changed []T) []T {
	byID := make(map[string]T, len(changed))
	for _, c := range changed {
		byID[c.RankID()] = c
	}

	result := make([]T, len(items))
	for i, it := range items {
		if c, ok := byID[it.RankID()]; ok {
			result[i] = c
		} else {
			result[i] = it
		}
	}
	return result
}

func indexOf[T Ranked[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(it T) bool {
		return it.RankID() == id
	})
}
