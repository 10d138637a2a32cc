package mockcontroller

import (
	"context"
	"sync"
	"time"

	"github.com/mww/washed_up/controller"
	"github.com/mww/washed_up/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) GetLeagueInfo(ctx context.Context) (*model.LeagueInfo, error) {
	args := c.Called(ctx)

	var info *model.LeagueInfo
	if args.Get(0) != nil {
		info = args.Get(0).(*model.LeagueInfo)
	}
	return info, args.Error(1)
}

func (c *C) SaveLeagueInfo(ctx context.Context, info *model.LeagueInfo) error {
	args := c.Called(ctx, info)
	return args.Error(0)
}

func (c *C) DraftOrder(ctx context.Context, year string) ([]model.DraftPick, error) {
	args := c.Called(ctx, year)

	var res []model.DraftPick
	if args.Get(0) != nil {
		res = args.Get(0).([]model.DraftPick)
	}
	return res, args.Error(1)
}

func (c *C) AddDraftPick(ctx context.Context, year, memberName string) (*model.DraftPick, error) {
	args := c.Called(ctx, year, memberName)

	var p *model.DraftPick
	if args.Get(0) != nil {
		p = args.Get(0).(*model.DraftPick)
	}
	return p, args.Error(1)
}

func (c *C) RemoveDraftPick(ctx context.Context, id string) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) MoveDraftPick(ctx context.Context, id string, dir model.Direction) error {
	args := c.Called(ctx, id, dir)
	return args.Error(0)
}

func (c *C) Standings(ctx context.Context, year string) ([]model.Standing, error) {
	args := c.Called(ctx, year)

	var res []model.Standing
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Standing)
	}
	return res, args.Error(1)
}

func (c *C) AddStanding(ctx context.Context, year string, in controller.StandingInput) (*model.Standing, error) {
	args := c.Called(ctx, year, in)

	var s *model.Standing
	if args.Get(0) != nil {
		s = args.Get(0).(*model.Standing)
	}
	return s, args.Error(1)
}

func (c *C) RemoveStanding(ctx context.Context, id string) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) MoveStanding(ctx context.Context, id string, dir model.Direction) error {
	args := c.Called(ctx, id, dir)
	return args.Error(0)
}

func (c *C) Punishments(ctx context.Context) (*model.PunishmentBoard, error) {
	args := c.Called(ctx)

	var b *model.PunishmentBoard
	if args.Get(0) != nil {
		b = args.Get(0).(*model.PunishmentBoard)
	}
	return b, args.Error(1)
}

func (c *C) AddPunishment(ctx context.Context, in controller.PunishmentInput) (*model.Punishment, error) {
	args := c.Called(ctx, in)

	var p *model.Punishment
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Punishment)
	}
	return p, args.Error(1)
}

func (c *C) UpdatePunishment(ctx context.Context, id string, in controller.PunishmentInput) error {
	args := c.Called(ctx, id, in)
	return args.Error(0)
}

func (c *C) TogglePunishment(ctx context.Context, id string) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) DeletePunishment(ctx context.Context, id string) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) Members(ctx context.Context) ([]model.Member, error) {
	args := c.Called(ctx)

	var res []model.Member
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Member)
	}
	return res, args.Error(1)
}

func (c *C) Dashboard(ctx context.Context, year string, id *model.Identity) (*model.Dashboard, error) {
	args := c.Called(ctx, year, id)

	var d *model.Dashboard
	if args.Get(0) != nil {
		d = args.Get(0).(*model.Dashboard)
	}
	return d, args.Error(1)
}

func (c *C) Refresh(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}

func (c *C) RunPeriodicRefresh(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	c.Called(frequency, shutdown, wg)
}

func (c *C) ImportSeedData(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}
