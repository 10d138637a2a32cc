package model

type StandingRow struct {
	Standing
	Class string
}

// Dashboard is everything the landing page shows for one season.
type Dashboard struct {
	Year        string
	League      *LeagueInfo
	DraftOrder  []DraftPick
	YourPick    *DraftPick
	Standings   []StandingRow
	Punishments *PunishmentBoard
	Empty       bool
}
