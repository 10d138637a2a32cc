package controller

import (
	"context"
	"testing"

	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunishments_lifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, nil)
	require.NoError(t, c.store.Put(ctx, db.CollectionMembers, "u-day", model.Member{Name: "Day", Email: "day@example.com"}))

	p, err := c.AddPunishment(ctx, PunishmentInput{Title: " Hitched ", Description: "Get Married", AssignedTo: "u-day", Year: "2022"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "u-day", p.AssignedTo)
	assert.Equal(t, "Day", p.AssignedToName)
	assert.Equal(t, "Hitched", p.Title)

	free, err := c.AddPunishment(ctx, PunishmentInput{Title: "Greyhound", AssignedTo: "Slye"})
	require.NoError(t, err)
	assert.Equal(t, "", free.AssignedTo)
	assert.Equal(t, "Slye", free.AssignedToName)
	assert.Equal(t, model.PunishmentYearFuture, free.Year)

	require.NoError(t, c.TogglePunishment(ctx, p.ID))
	require.NoError(t, c.UpdatePunishment(ctx, p.ID, PunishmentInput{Title: "Hitched", Description: "Get Married, again"}))

	d, err := c.store.Get(ctx, db.CollectionPunishments, p.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(d.Data), "assignedTo", "an empty assignee should remove the assignee fields")

	got, err := c.getPunishment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &model.Punishment{ID: p.ID, Title: "Hitched", Description: "Get Married, again", Completed: true, Year: "2022"}, got)

	require.NoError(t, c.UpdatePunishment(ctx, free.ID, PunishmentInput{Title: "Greyhound", AssignedTo: "day", Year: "2025"}))
	got, err = c.getPunishment(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-day", got.AssignedTo)
	assert.Equal(t, "2025", got.Year)

	require.NoError(t, c.DeletePunishment(ctx, p.ID))
	board, err := c.Punishments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Len())
}

func TestPunishments_errors(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, nil)

	_, err := c.AddPunishment(ctx, PunishmentInput{Title: "  "})
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = c.AddPunishment(ctx, PunishmentInput{Title: "SAT", Year: "someday"})
	assert.ErrorIs(t, err, ErrInvalidYear)

	assert.ErrorIs(t, c.TogglePunishment(ctx, "nope"), ErrNotFound)
	assert.ErrorIs(t, c.DeletePunishment(ctx, "nope"), ErrNotFound)
	assert.ErrorIs(t, c.UpdatePunishment(ctx, "nope", PunishmentInput{Title: "SAT"}), ErrNotFound)
	assert.ErrorIs(t, c.UpdatePunishment(ctx, "nope", PunishmentInput{}), ErrMissingField)
}

func TestGroupPunishments(t *testing.T) {
	punishments := []model.Punishment{
		{ID: "a", Year: "2022"},
		{ID: "b", Year: "2025"},
		{ID: "c", Year: model.PunishmentYearFuture},
		{ID: "d", Year: "2023"},
		{ID: "e", Year: "2025"},
		{ID: "f", Year: ""},
	}

	board := groupPunishments(punishments)

	var years []string
	for _, g := range board.ByYear {
		years = append(years, g.Year)
	}
	assert.Equal(t, []string{"2025", "2023", "2022"}, years)
	assert.Equal(t, "b", board.ByYear[0].Items[0].ID)
	assert.Equal(t, "e", board.ByYear[0].Items[1].ID)
	assert.Len(t, board.Future, 2)
	assert.Equal(t, 6, board.Len())

	if empty := groupPunishments(nil); empty.Len() != 0 || len(empty.ByYear) != 0 {
		t.Errorf("expected an empty board, got: %+v", empty)
	}
}
