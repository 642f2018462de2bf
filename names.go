package main

import (
	"fmt"
	"strings"
	"unicode"
)

// randomTeamName draws a fresh generated name, skipping anything the room has
// handed out before.
func (r *Room) randomTeamName() string {
	for i := 0; i < 32; i++ {
		name := titleWord(r.fkr.Adjective()) + " " + titleWord(r.fkr.Animal()) + "s"
		if r.usedNames[name] {
			continue
		}
		r.usedNames[name] = true
		return name
	}

	// The generator pool is effectively exhausted; fall back to a numbered name.
	name := fmt.Sprintf("Team %d", len(r.usedNames)+1)
	r.usedNames[name] = true
	return name
}

func titleWord(s string) string {
	parts := strings.Fields(s)
	for i, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
