package model

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
	}{
		{input: "up", expected: DIR_UP},
		{input: "UP", expected: DIR_UP},
		{input: " u ", expected: DIR_UP},
		{input: "down", expected: DIR_DOWN},
		{input: "Down", expected: DIR_DOWN},
		{input: "d", expected: DIR_DOWN},
		{input: "left", expected: DIR_UNKNOWN},
		{input: "", expected: DIR_UNKNOWN},
	}

	for _, tc := range tests {
		a := ParseDirection(tc.input)
		if a != tc.expected {
			t.Errorf("input: '%s', expected: '%s', got '%s'", tc.input, tc.expected, a)
		}
	}
}
