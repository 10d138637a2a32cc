package controller

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
)

// PunishmentInput is the data entered for a punishment. AssignedTo is either the id of a
// registered member or a free text name.
type PunishmentInput struct {
	Title       string
	Description string
	AssignedTo  string
	Year        string
}

func (c *controller) Punishments(ctx context.Context) (*model.PunishmentBoard, error) {
	punishments, err := loadAll[model.Punishment](ctx, c.db, db.CollectionPunishments)
	if err != nil {
		return nil, err
	}
	return groupPunishments(punishments), nil
}

// groupPunishments splits punishments into seasons, most recent first, and the ones that
// are not tied to a season yet. Store order is kept within a group.
func groupPunishments(punishments []model.Punishment) *model.PunishmentBoard {
	board := &model.PunishmentBoard{}
	byYear := make(map[string][]model.Punishment)
	for _, p := range punishments {
		if p.IsFuture() {
			board.Future = append(board.Future, p)
			continue
		}
		byYear[p.Year] = append(byYear[p.Year], p)
	}

	for year, items := range byYear {
		board.ByYear = append(board.ByYear, model.PunishmentGroup{Year: year, Items: items})
	}
	slices.SortFunc(board.ByYear, func(a, b model.PunishmentGroup) int {
		return cmp.Compare(b.Year, a.Year)
	})
	return board
}

func (c *controller) AddPunishment(ctx context.Context, in PunishmentInput) (*model.Punishment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	year, err := punishmentYear(in.Year)
	if err != nil {
		return nil, err
	}

	p := &model.Punishment{
		ID:          uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Year:        year,
	}
	p.AssignedTo, p.AssignedToName, err = c.resolveAssignee(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}

	if err := c.db.Put(ctx, db.CollectionPunishments, p.ID, p); err != nil {
		return nil, fmt.Errorf("error saving punishment: %w", err)
	}
	return p, nil
}

func (c *controller) UpdatePunishment(ctx context.Context, id string, in PunishmentInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if _, err := c.getPunishment(ctx, id); err != nil {
		return err
	}

	fields := map[string]any{
		"title":       title,
		"description": strings.TrimSpace(in.Description),
	}
	if in.Year != "" {
		year, err := punishmentYear(in.Year)
		if err != nil {
			return err
		}
		fields["year"] = year
	}

	assignedTo, assignedToName, err := c.resolveAssignee(ctx, in.AssignedTo)
	if err != nil {
		return err
	}
	if assignedToName == "" {
		fields["assignedTo"] = db.DeleteField
		fields["assignedToName"] = db.DeleteField
	} else {
		fields["assignedTo"] = assignedTo
		fields["assignedToName"] = assignedToName
	}

	if err := c.db.Merge(ctx, db.CollectionPunishments, id, fields); err != nil {
		return fmt.Errorf("error updating punishment: %w", err)
	}
	return nil
}

func (c *controller) TogglePunishment(ctx context.Context, id string) error {
	p, err := c.getPunishment(ctx, id)
	if err != nil {
		return err
	}

	p.Completed = !p.Completed
	if err := c.db.Put(ctx, db.CollectionPunishments, id, p); err != nil {
		return fmt.Errorf("error saving punishment: %w", err)
	}
	return nil
}

func (c *controller) DeletePunishment(ctx context.Context, id string) error {
	if _, err := c.getPunishment(ctx, id); err != nil {
		return err
	}
	if err := c.db.Delete(ctx, db.CollectionPunishments, id); err != nil {
		return fmt.Errorf("error deleting punishment: %w", err)
	}
	return nil
}

func (c *controller) getPunishment(ctx context.Context, id string) (*model.Punishment, error) {
	d, err := c.db.Get(ctx, db.CollectionPunishments, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: punishment %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("error loading punishment: %w", err)
	}

	p := &model.Punishment{}
	if err := d.Decode(p); err != nil {
		return nil, err
	}
	p.ID = d.ID
	return p, nil
}

// resolveAssignee maps the assignee field to a member id and display name. Names that do
// not match a registered member are kept as free text with no member id.
func (c *controller) resolveAssignee(ctx context.Context, assignee string) (string, string, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return "", "", nil
	}

	members, err := c.Members(ctx)
	if err != nil {
		return "", "", err
	}
	for _, m := range members {
		if m.ID == assignee {
			return m.ID, m.Name, nil
		}
	}
	for _, m := range members {
		if strings.EqualFold(m.Name, assignee) {
			return m.ID, m.Name, nil
		}
	}
	return "", assignee, nil
}

func punishmentYear(year string) (string, error) {
	year = strings.TrimSpace(year)
	if year == "" || year == model.PunishmentYearFuture {
		return model.PunishmentYearFuture, nil
	}
	if err := validateYear(year); err != nil {
		return "", err
	}
	return year, nil
}
