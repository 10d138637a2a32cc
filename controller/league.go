package controller

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
)

func (c *controller) GetLeagueInfo(ctx context.Context) (*model.LeagueInfo, error) {
	d, err := c.db.Get(ctx, db.CollectionLeague, db.LeagueInfoID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &model.LeagueInfo{}, nil
		}
		return nil, fmt.Errorf("error loading league info: %w", err)
	}

	info := &model.LeagueInfo{}
	if err := d.Decode(info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *controller) SaveLeagueInfo(ctx context.Context, info *model.LeagueInfo) error {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return fmt.Errorf("%w: league name", ErrMissingField)
	}
	info.Season = strings.TrimSpace(info.Season)
	info.DraftDate = strings.TrimSpace(info.DraftDate)
	info.DraftTime = strings.TrimSpace(info.DraftTime)
	info.Commissioner = strings.TrimSpace(info.Commissioner)

	if err := c.db.Put(ctx, db.CollectionLeague, db.LeagueInfoID, info); err != nil {
		return fmt.Errorf("error saving league info: %w", err)
	}
	return nil
}

func (c *controller) Members(ctx context.Context) ([]model.Member, error) {
	members, err := loadAll[model.Member](ctx, c.db, db.CollectionMembers)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(members, func(a, b model.Member) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return members, nil
}

func (c *controller) Dashboard(ctx context.Context, year string, id *model.Identity) (*model.Dashboard, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	info, err := c.GetLeagueInfo(ctx)
	if err != nil {
		return nil, err
	}
	picks, err := loadAll[model.DraftPick](ctx, c.db, db.CollectionDraftOrder)
	if err != nil {
		return nil, err
	}
	standings, err := loadAll[model.Standing](ctx, c.db, db.CollectionStandings)
	if err != nil {
		return nil, err
	}
	punishments, err := loadAll[model.Punishment](ctx, c.db, db.CollectionPunishments)
	if err != nil {
		return nil, err
	}

	d := &model.Dashboard{
		Year:        year,
		League:      info,
		DraftOrder:  ranking.Partition(picks, year),
		Punishments: groupPunishments(punishments),
		Empty:       len(picks) == 0 && len(punishments) == 0 && info.Name == "",
	}

	for i := range d.DraftOrder {
		if d.DraftOrder[i].IsMember(id) {
			d.YourPick = &d.DraftOrder[i]
			break
		}
	}

	table := ranking.Partition(standings, year)
	for _, s := range table {
		d.Standings = append(d.Standings, model.StandingRow{Standing: s, Class: s.Medal(len(table))})
	}
	return d, nil
}
