package model

// PunishmentYearFuture marks a punishment that has not been tied to a season yet.
const PunishmentYearFuture = "future"

// Seasons that can be selected in the views. The first entry is the current season.
var AvailableYears = []string{"2025", "2024", "2023", "2022", "2021"}

func CurrentYear() string {
	return AvailableYears[0]
}

func IsAvailableYear(year string) bool {
	for _, y := range AvailableYears {
		if y == year {
			return true
		}
	}
	return false
}

// LeagueInfo is the singleton record describing the league.
type LeagueInfo struct {
	Name         string `json:"name"`
	Season       string `json:"season"`
	DraftDate    string `json:"draftDate,omitempty"`
	DraftTime    string `json:"draftTime,omitempty"`
	Commissioner string `json:"commissioner,omitempty"`
}

// DraftDay is the "date @ time" label shown on the dashboard. Empty when no date is set.
func (l *LeagueInfo) DraftDay() string {
	if l == nil || l.DraftDate == "" {
		return ""
	}
	if l.DraftTime == "" {
		return l.DraftDate
	}
	return l.DraftDate + " @ " + l.DraftTime
}

// Member is the profile linked to an authenticated identity.
type Member struct {
	ID      string `json:"-"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

func (m *Member) SetID(id string) { m.ID = id }

// Identity is who the identity provider says the user is. It carries no capabilities.
type Identity struct {
	ID    string
	Email string
	Name  string
}
