package model

import (
	"regexp"
	"strings"
)

type DraftPick struct {
	ID         string `json:"id"`
	Position   int    `json:"position"`
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	Year       string `json:"year"`
}

func (p DraftPick) RankID() string        { return p.ID }
func (p DraftPick) RankPosition() int     { return p.Position }
func (p DraftPick) RankPartition() string { return p.Year }

func (p DraftPick) WithPosition(pos int) DraftPick {
	p.Position = pos
	return p
}

// IsMember reports whether the pick belongs to the given identity. Picks added by name
// carry a slug instead of an account id, so the display name is compared too.
func (p DraftPick) IsMember(id *Identity) bool {
	if id == nil {
		return false
	}
	if p.MemberID == id.ID {
		return true
	}
	return id.Name != "" && strings.EqualFold(p.MemberName, id.Name)
}

var whitespace = regexp.MustCompile(`\s+`)

// MemberSlug builds the placeholder member id used for picks added by name.
func MemberSlug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// OrdinalSuffix returns the English suffix for n, e.g. "st" for 1 and "th" for 11.
func OrdinalSuffix(n int) string {
	v := n % 100
	if v >= 11 && v <= 13 {
		return "th"
	}
	switch v % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func (p *DraftPick) SetID(id string) { p.ID = id }
