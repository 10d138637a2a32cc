package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/db/mockdb"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
	"github.com/stretchr/testify/mock"
)

func draftNames(picks []model.DraftPick) []string {
	var names []string
	for _, p := range picks {
		names = append(names, fmt.Sprintf("%d:%s", p.Position, p.MemberName))
	}
	return names
}

func TestDraftOrder_lifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, nil)

	var ids = make(map[string]string)
	for _, name := range []string{"Alice", "Bob", "Cara"} {
		p, err := c.AddDraftPick(ctx, "2025", name)
		if err != nil {
			t.Fatalf("error adding %s: %v", name, err)
		}
		ids[name] = p.ID
	}
	dana, err := c.AddDraftPick(ctx, "2024", "  Dana  Scully ")
	if err != nil {
		t.Fatalf("error adding Dana: %v", err)
	}

	wantID := fmt.Sprintf("pick-2025-1-%d", c.clock.Now().UnixMilli())
	if ids["Alice"] != wantID {
		t.Errorf("unexpected id, wanted: %s, got: %s", wantID, ids["Alice"])
	}
	if dana.Position != 1 || dana.MemberID != "dana-scully" || dana.MemberName != "Dana  Scully" {
		t.Errorf("unexpected pick for another year: %+v", dana)
	}

	check := func(year string, want ...string) {
		t.Helper()
		picks, err := c.DraftOrder(ctx, year)
		if err != nil {
			t.Fatalf("error loading draft order: %v", err)
		}
		if diff := cmp.Diff(want, draftNames(picks)); diff != "" {
			t.Errorf("draft order mismatch (-want +got):\n%s", diff)
		}
	}
	check("2025", "1:Alice", "2:Bob", "3:Cara")

	if err := c.RemoveDraftPick(ctx, ids["Bob"]); err != nil {
		t.Fatalf("error removing Bob: %v", err)
	}
	check("2025", "1:Alice", "2:Cara")

	if err := c.MoveDraftPick(ctx, ids["Cara"], model.DIR_UP); err != nil {
		t.Fatalf("error moving Cara: %v", err)
	}
	check("2025", "1:Cara", "2:Alice")

	// Moving past either end does nothing.
	if err := c.MoveDraftPick(ctx, ids["Cara"], model.DIR_UP); err != nil {
		t.Errorf("expected boundary move to be a no-op, got: %v", err)
	}
	if err := c.MoveDraftPick(ctx, ids["Alice"], model.DIR_DOWN); err != nil {
		t.Errorf("expected boundary move to be a no-op, got: %v", err)
	}
	check("2025", "1:Cara", "2:Alice")
	check("2024", "1:Dana  Scully")
}

func TestDraftOrder_errors(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, nil)
	p, err := c.AddDraftPick(ctx, "2025", "Alice")
	if err != nil {
		t.Fatalf("error adding pick: %v", err)
	}

	tests := map[string]struct {
		run  func() error
		want error
	}{
		"missing name": {
			run:  func() error { _, err := c.AddDraftPick(ctx, "2025", "  "); return err },
			want: ErrMissingField,
		},
		"bad year": {
			run:  func() error { _, err := c.AddDraftPick(ctx, "25", "Bob"); return err },
			want: ErrInvalidYear,
		},
		"list bad year": {
			run:  func() error { _, err := c.DraftOrder(ctx, "next"); return err },
			want: ErrInvalidYear,
		},
		"remove unknown": {
			run:  func() error { return c.RemoveDraftPick(ctx, "nope") },
			want: ErrNotFound,
		},
		"move unknown": {
			run:  func() error { return c.MoveDraftPick(ctx, "nope", model.DIR_UP) },
			want: ErrNotFound,
		},
		"bad direction": {
			run:  func() error { return c.MoveDraftPick(ctx, p.ID, model.DIR_UNKNOWN) },
			want: ranking.ErrBadDirection,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, tc.want) {
				t.Errorf("expected error: %v, got: %v", tc.want, err)
			}
		})
	}
}

func TestRemoveDraftPick_writesOneBatch(t *testing.T) {
	ctx := context.Background()
	docs := []db.Document{
		{ID: "a", Data: []byte(`{"position":1,"memberName":"Alice","year":"2025"}`)},
		{ID: "b", Data: []byte(`{"position":2,"memberName":"Bob","year":"2025"}`)},
		{ID: "c", Data: []byte(`{"position":3,"memberName":"Cara","year":"2025"}`)},
	}
	errDB := errors.New("db down")

	store := &mockdb.DB{}
	store.On("ListAll", mock.Anything, db.CollectionDraftOrder).Return(docs, nil)
	store.On("Apply", mock.Anything, mock.MatchedBy(func(b *db.Batch) bool {
		// The delete of a plus the new positions of b and c.
		return b.Len() == 3
	})).Return(errDB)

	c := newTestController(t, store)
	if err := c.RemoveDraftPick(ctx, "a"); !errors.Is(err, errDB) {
		t.Errorf("expected the store error, got: %v", err)
	}
	store.AssertExpectations(t)
}

func TestAddDraftPick_storeFailure(t *testing.T) {
	errDB := errors.New("db down")
	store := &mockdb.DB{}
	store.On("ListAll", mock.Anything, db.CollectionDraftOrder).Return(nil, errDB)

	c := newTestController(t, store)
	if _, err := c.AddDraftPick(context.Background(), "2025", "Alice"); !errors.Is(err, errDB) {
		t.Errorf("expected the store error, got: %v", err)
	}
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftOrder_postgres(t *testing.T) {
	if testDB == nil {
		t.Skip("postgres container not started in -short mode")
	}

	ctx := context.Background()
	c := newTestController(t, testDB.DB)
	year := "1990"

	var last *model.DraftPick
	for _, name := range []string{"Alice", "Bob", "Cara", "Dana"} {
		p, err := c.AddDraftPick(ctx, year, name)
		if err != nil {
			t.Fatalf("error adding %s: %v", name, err)
		}
		c.clock.Add(1)
		last = p
	}

	if err := c.MoveDraftPick(ctx, last.ID, model.DIR_UP); err != nil {
		t.Fatalf("error moving pick: %v", err)
	}
	picks, err := c.DraftOrder(ctx, year)
	if err != nil {
		t.Fatalf("error loading picks: %v", err)
	}
	want := []string{"1:Alice", "2:Bob", "3:Dana", "4:Cara"}
	if diff := cmp.Diff(want, draftNames(picks)); diff != "" {
		t.Errorf("draft order mismatch (-want +got):\n%s", diff)
	}
}
