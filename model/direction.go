package model

import (
	"strings"
)

// Direction is the way a ranked item moves within its season.
type Direction string

const (
	DIR_UNKNOWN Direction = "unknown"
	DIR_UP      Direction = "up"
	DIR_DOWN    Direction = "down"
)

func ParseDirection(dir string) Direction {
	dir = strings.ToLower(strings.TrimSpace(dir))
	switch dir {
	case "up", "u":
		return DIR_UP
	case "down", "d":
		return DIR_DOWN
	default:
		return DIR_UNKNOWN
	}
}
