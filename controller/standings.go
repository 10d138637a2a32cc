package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
)

// StandingInput is the data entered for a new row of the standings table.
type StandingInput struct {
	TeamName  string
	Wins      int
	Losses    int
	Ties      int
	PointsFor *int
}

func (c *controller) Standings(ctx context.Context, year string) ([]model.Standing, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	standings, err := loadAll[model.Standing](ctx, c.db, db.CollectionStandings)
	if err != nil {
		return nil, err
	}
	return ranking.Partition(standings, year), nil
}

func (c *controller) AddStanding(ctx context.Context, year string, in StandingInput) (*model.Standing, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.TeamName)
	if name == "" {
		return nil, fmt.Errorf("%w: team name", ErrMissingField)
	}

	standings, err := loadAll[model.Standing](ctx, c.db, db.CollectionStandings)
	if err != nil {
		return nil, err
	}

	_, s := ranking.Insert(standings, model.Standing{
		TeamName:  name,
		Wins:      in.Wins,
		Losses:    in.Losses,
		Ties:      in.Ties,
		PointsFor: in.PointsFor,
		Year:      year,
	})
	s.ID = fmt.Sprintf("standing-%s-%d-%d", year, s.Position, c.clock.Now().UnixMilli())

	if err := c.db.Put(ctx, db.CollectionStandings, s.ID, s); err != nil {
		return nil, fmt.Errorf("error saving standing: %w", err)
	}
	return &s, nil
}

func (c *controller) RemoveStanding(ctx context.Context, id string) error {
	return removeRanked[model.Standing](ctx, c.db, db.CollectionStandings, id)
}

func (c *controller) MoveStanding(ctx context.Context, id string, dir model.Direction) error {
	return moveRanked[model.Standing](ctx, c.db, db.CollectionStandings, id, dir)
}
