package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
)

func (c *controller) DraftOrder(ctx context.Context, year string) ([]model.DraftPick, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	picks, err := loadAll[model.DraftPick](ctx, c.db, db.CollectionDraftOrder)
	if err != nil {
		return nil, err
	}
	return ranking.Partition(picks, year), nil
}

func (c *controller) AddDraftPick(ctx context.Context, year, memberName string) (*model.DraftPick, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	memberName = strings.TrimSpace(memberName)
	if memberName == "" {
		return nil, fmt.Errorf("%w: member name", ErrMissingField)
	}

	picks, err := loadAll[model.DraftPick](ctx, c.db, db.CollectionDraftOrder)
	if err != nil {
		return nil, err
	}

	_, pick := ranking.Insert(picks, model.DraftPick{
		MemberID:   model.MemberSlug(memberName),
		MemberName: memberName,
		Year:       year,
	})
	pick.ID = fmt.Sprintf("pick-%s-%d-%d", year, pick.Position, c.clock.Now().UnixMilli())

	if err := c.db.Put(ctx, db.CollectionDraftOrder, pick.ID, pick); err != nil {
		return nil, fmt.Errorf("error saving draft pick: %w", err)
	}
	return &pick, nil
}

func (c *controller) RemoveDraftPick(ctx context.Context, id string) error {
	return removeRanked[model.DraftPick](ctx, c.db, db.CollectionDraftOrder, id)
}

func (c *controller) MoveDraftPick(ctx context.Context, id string, dir model.Direction) error {
	return moveRanked[model.DraftPick](ctx, c.db, db.CollectionDraftOrder, id, dir)
}
