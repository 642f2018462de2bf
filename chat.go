package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	chatLogCap    = 100
	chatTextLimit = 280
)

// ChatMessage is one entry in a room's bounded chat log. Scope is teamNone
// for room-wide messages, or the team the message is tagged for.
type ChatMessage struct {
	ID    string
	Peer  string
	Name  string
	Text  string
	At    time.Time
	Scope team
}

func (r *Room) sendChat(p *Player, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if runes := []rune(text); len(runes) > chatTextLimit {
		text = string(runes[:chatTextLimit])
	}

	scope := teamNone
	if !p.IsHost && p.Team != teamNone {
		scope = p.Team
	}

	r.chat = append(r.chat, ChatMessage{
		ID:    uuid.NewString(),
		Peer:  p.PeerID,
		Name:  p.Name,
		Text:  text,
		At:    time.Now(),
		Scope: scope,
	})
	if len(r.chat) > chatLogCap {
		r.chat = r.chat[len(r.chat)-chatLogCap:]
	}

	return true
}

// chatVisible applies the per-message visibility rule: the host sees
// everything; everyone else sees room-wide messages plus their own team's,
// and during the question phase team-scoped messages are further limited to
// the active team.
func chatVisible(m ChatMessage, viewer *Player, ph phase, active team) bool {
	if viewer.IsHost {
		return true
	}
	if m.Scope == teamNone {
		return true
	}
	if viewer.Team != m.Scope {
		return false
	}
	if ph == phaseQuestion && viewer.Team != active {
		return false
	}
	return true
}
