package controller

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
)

var seedLeague = model.LeagueInfo{
	Name:      "Washed Up Fantasy Football",
	Season:    "2025",
	DraftDate: "September 3rd",
	DraftTime: "8:00 PM",
}

const seedDraftYear = "2024"

var seedDraftOrder = []string{
	"Noah", "Plourde", "Elia", "Tanner", "Chuck", "Bloq",
	"Day", "Bruno", "Jub", "Simmons", "BYung", "Finnboi",
}

var seedPunishments = []model.Punishment{
	{Title: "Fun Run", Description: "Run an officially timed marathon in less than 6 hrs", Year: "2025"},
	{Title: "2468", Description: "Miles Run, Pizza Slices, Donuts, Beers, 90min limit", Year: "2025"},
	{Title: "Sped on a Ped", Description: "Moped from New York to Boston.", Year: "2025"},
	{Title: "SAT", Description: "Take the SAT at official testing center and score a minimum of 1600 - (Games Won * 100)", Year: "2025"},
	{Title: "Greyhound", Description: "Winner Picks location within 8hr bus ride radius for loser to go spend the night. Must return on bus as well.", Year: "2025"},
	{Title: "McDicks Challenge", Description: "https://x.com/joedeleone/status/1801717931887497609", Year: "2025"},
	{Title: "Glizzy Gobbler", Description: "70 hotdogs in 7 days. Record each dog consumption with a timestamp.", Year: "2025"},
	{Title: "Kennedy", Description: "Get Circumcised", Year: "2025"},
	{Title: "Tatted", Description: "Get this tattoo (At least 2.5 inches in diameter) anywhere on your body.", Year: "2025"},

	{Title: "Delivery Boy", Description: "Food delivery driver until you make 200$ and then put that 200$ on any 50/50 or higher risk bet.", Year: "2024", AssignedToName: "Noah", Completed: true},
	{Title: "Fuck Off", Description: "Leave the Friend Group and never hang with us again.", Year: "2023", AssignedToName: "Slye", Completed: true},
	{Title: "Hitched", Description: "Get Married", Year: "2022", AssignedToName: "Day", Completed: true},
}

const seedStandingsYear = "2023"

var seedStandings = []model.Standing{
	{TeamName: "Plourde Force", Wins: 11, Losses: 3},
	{TeamName: "Day Drinkers", Wins: 10, Losses: 4},
	{TeamName: "Tanner Tantrum", Wins: 9, Losses: 5},
	{TeamName: "Bruno Mars Attacks", Wins: 9, Losses: 5},
	{TeamName: "Chuck and Duck", Wins: 8, Losses: 6},
	{TeamName: "Elia Express", Wins: 8, Losses: 6},
	{TeamName: "Jub Jub Birds", Wins: 7, Losses: 7},
	{TeamName: "Simmons Says", Wins: 7, Losses: 7},
	{TeamName: "BYung Money", Wins: 6, Losses: 8},
	{TeamName: "Bloq Party", Wins: 6, Losses: 8},
	{TeamName: "Finnboi Fumbles", Wins: 5, Losses: 9},
	{TeamName: "Noah's Arks", Wins: 5, Losses: 9},
	{TeamName: "The Benchwarmers", Wins: 4, Losses: 10},
	{TeamName: "Slye Guys", Wins: 3, Losses: 11},
}

// ImportSeedData writes the data of the old website in one batch. The seeded seasons of
// the draft order and standings are replaced as a whole, so positions stay contiguous
// when the import runs again after those seasons were edited.
func (c *controller) ImportSeedData(ctx context.Context) error {
	picks, err := loadAll[model.DraftPick](ctx, c.db, db.CollectionDraftOrder)
	if err != nil {
		return err
	}
	standings, err := loadAll[model.Standing](ctx, c.db, db.CollectionStandings)
	if err != nil {
		return err
	}

	b := db.NewBatch().Put(db.CollectionLeague, db.LeagueInfoID, seedLeague)

	seeded := make(map[string]bool)
	for i, name := range seedDraftOrder {
		pick := model.DraftPick{
			ID:         fmt.Sprintf("pick-%s-%d", seedDraftYear, i+1),
			Position:   i + 1,
			MemberID:   model.MemberSlug(name),
			MemberName: name,
			Year:       seedDraftYear,
		}
		b.Put(db.CollectionDraftOrder, pick.ID, pick)
		seeded[pick.ID] = true
	}
	for _, p := range ranking.Partition(picks, seedDraftYear) {
		if !seeded[p.ID] {
			b.Delete(db.CollectionDraftOrder, p.ID)
		}
	}

	for _, p := range seedPunishments {
		b.Put(db.CollectionPunishments, seedPunishmentID(p), p)
	}

	for i, s := range seedStandings {
		s.ID = fmt.Sprintf("standing-%s-%d", seedStandingsYear, i+1)
		s.Position = i + 1
		s.Year = seedStandingsYear
		b.Put(db.CollectionStandings, s.ID, s)
		seeded[s.ID] = true
	}
	for _, s := range ranking.Partition(standings, seedStandingsYear) {
		if !seeded[s.ID] {
			b.Delete(db.CollectionStandings, s.ID)
		}
	}

	if err := c.db.Apply(ctx, b); err != nil {
		return fmt.Errorf("error importing seed data: %w", err)
	}
	c.log.Infow("imported seed data", "writes", b.Len())
	return nil
}

// seedPunishmentID derives a stable id so importing twice does not duplicate punishments.
func seedPunishmentID(p model.Punishment) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("washed_up/punishments/"+p.Year+"/"+p.Title)).String()
}
