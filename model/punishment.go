package model

type Punishment struct {
	ID             string `json:"-"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	AssignedTo     string `json:"assignedTo,omitempty"`
	AssignedToName string `json:"assignedToName,omitempty"`
	Completed      bool   `json:"completed"`
	Year           string `json:"year"`
}

// IsFuture reports whether the punishment has not been assigned to a season.
func (p *Punishment) IsFuture() bool {
	return p.Year == "" || p.Year == PunishmentYearFuture
}

type PunishmentGroup struct {
	Year  string
	Items []Punishment
}

// PunishmentBoard is the punishments grouped for display. ByYear is sorted with the
// most recent season first.
type PunishmentBoard struct {
	ByYear []PunishmentGroup
	Future []Punishment
}

func (b *PunishmentBoard) Len() int {
	n := len(b.Future)
	for _, g := range b.ByYear {
		n += len(g.Items)
	}
	return n
}

func (p *Punishment) SetID(id string) { p.ID = id }
