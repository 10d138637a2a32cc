package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
)

// Draft picks and standings are both ordered lists partitioned by year, so they share the
// remove and move logic. Every renumbered item is written in the same batch as the change
// that caused it.

func removeRanked[T ranking.Ranked[T], P document[T]](ctx context.Context, store db.Store, collection, id string) error {
	items, err := loadAll[T, P](ctx, store, collection)
	if err != nil {
		return err
	}

	_, changed, err := ranking.Remove(items, id)
	if err != nil {
		return rankingError(err, collection, id)
	}

	b := db.NewBatch().Delete(collection, id)
	for _, item := range changed {
		b.Put(collection, item.RankID(), item)
	}
	if err := store.Apply(ctx, b); err != nil {
		return fmt.Errorf("error removing %s/%s: %w", collection, id, err)
	}
	return nil
}

func moveRanked[T ranking.Ranked[T], P document[T]](ctx context.Context, store db.Store, collection, id string, dir model.Direction) error {
	items, err := loadAll[T, P](ctx, store, collection)
	if err != nil {
		return err
	}

	_, changed, err := ranking.Move(items, id, dir)
	if err != nil {
		return rankingError(err, collection, id)
	}
	if len(changed) == 0 {
		return nil
	}

	b := db.NewBatch()
	for _, item := range changed {
		b.Put(collection, item.RankID(), item)
	}
	if err := store.Apply(ctx, b); err != nil {
		return fmt.Errorf("error moving %s/%s: %w", collection, id, err)
	}
	return nil
}

func rankingError(err error, collection, id string) error {
	if errors.Is(err, ranking.ErrItemNotFound) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return err
}
