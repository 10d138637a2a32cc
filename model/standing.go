package model

import "fmt"

type Standing struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	TeamName  string `json:"teamName"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Ties      int    `json:"ties"`
	PointsFor *int   `json:"pointsFor,omitempty"`
	Year      string `json:"year"`
}

func (s Standing) RankID() string        { return s.ID }
func (s Standing) RankPosition() int     { return s.Position }
func (s Standing) RankPartition() string { return s.Year }

func (s Standing) WithPosition(pos int) Standing {
	s.Position = pos
	return s
}

// Record formats the win-loss-tie record.
func (s Standing) Record() string {
	return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Ties)
}

// Medal returns the display class for the standing in a table of total teams.
func (s Standing) Medal(total int) string {
	switch {
	case s.Position == 1:
		return "champion"
	case s.Position == 2:
		return "silver"
	case s.Position == 3:
		return "bronze"
	case total > 3 && s.Position == total:
		return "last-place"
	default:
		return ""
	}
}

func (s *Standing) SetID(id string) { s.ID = id }
