package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"go.uber.org/zap"
)

const yearOnlyFormat = "2006"

var (
	ErrMissingField = errors.New("required field is missing")
	ErrInvalidYear  = errors.New("year must be in the YYYY format")
	ErrNotFound     = errors.New("not found")
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	// Returns the league info, or an empty record if none has been saved yet.
	GetLeagueInfo(ctx context.Context) (*model.LeagueInfo, error)
	SaveLeagueInfo(ctx context.Context, info *model.LeagueInfo) error

	DraftOrder(ctx context.Context, year string) ([]model.DraftPick, error)
	// Appends a pick for memberName to the end of the year's draft order.
	AddDraftPick(ctx context.Context, year, memberName string) (*model.DraftPick, error)
	RemoveDraftPick(ctx context.Context, id string) error
	MoveDraftPick(ctx context.Context, id string, dir model.Direction) error

	Standings(ctx context.Context, year string) ([]model.Standing, error)
	AddStanding(ctx context.Context, year string, in StandingInput) (*model.Standing, error)
	RemoveStanding(ctx context.Context, id string) error
	MoveStanding(ctx context.Context, id string, dir model.Direction) error

	Punishments(ctx context.Context) (*model.PunishmentBoard, error)
	AddPunishment(ctx context.Context, in PunishmentInput) (*model.Punishment, error)
	// Updates the title, description, assignee and year. An empty assignee removes it.
	UpdatePunishment(ctx context.Context, id string, in PunishmentInput) error
	TogglePunishment(ctx context.Context, id string) error
	DeletePunishment(ctx context.Context, id string) error

	Members(ctx context.Context) ([]model.Member, error)

	// Everything the landing page needs for one season. id may be nil for anonymous users.
	Dashboard(ctx context.Context, year string, id *model.Identity) (*model.Dashboard, error)

	// Reload every cached collection from the store.
	Refresh(ctx context.Context) error
	RunPeriodicRefresh(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)

	// Writes the league history from the old site in one batch. Running it again
	// overwrites the same documents.
	ImportSeedData(ctx context.Context) error
}

type controller struct {
	clock clock.Clock
	db    db.Store
	log   *zap.SugaredLogger
}

func New(clock clock.Clock, store db.Store, log *zap.SugaredLogger) (C, error) {
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	c := &controller{
		clock: clock,
		db:    store,
		log:   log,
	}
	return c, nil
}

func validateYear(year string) error {
	if _, err := time.Parse(yearOnlyFormat, year); err != nil {
		return fmt.Errorf("%w, got: %s", ErrInvalidYear, year)
	}
	return nil
}

// document is implemented by the pointer types of records that carry their store id.
type document[T any] interface {
	*T
	SetID(id string)
}

// loadAll reads and decodes every document of the collection.
func loadAll[T any, P document[T]](ctx context.Context, store db.Store, collection string) ([]T, error) {
	docs, err := store.ListAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", collection, err)
	}

	result := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := d.Decode(&v); err != nil {
			return nil, fmt.Errorf("error decoding %s/%s: %w", collection, d.ID, err)
		}
		P(&v).SetID(d.ID)
		result = append(result, v)
	}
	return result, nil
}

func (c *controller) Refresh(ctx context.Context) error {
	r, ok := c.db.(db.Refresher)
	if !ok {
		return nil
	}
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("error refreshing cached data: %w", err)
	}
	return nil
}

func (c *controller) RunPeriodicRefresh(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := c.Refresh(ctx); err != nil {
				c.log.Errorw("periodic refresh failed", "error", err)
			}
			cancel()
		}
	}
}
