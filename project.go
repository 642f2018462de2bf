package main

import (
	"time"
)

// PlayerView is one roster entry in a snapshot. Team is blanked while
// assignments are still hidden.
type PlayerView struct {
	PeerID    string `json:"peerId"`
	Name      string `json:"name"`
	Team      string `json:"team,omitempty"`
	IsHost    bool   `json:"isHost"`
	IsCaptain bool   `json:"isCaptain"`
}

// QuestionView carries the current question; the correct option, the
// submitted option, and the points awarded appear only once revealed.
type QuestionView struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Correct   *int     `json:"correct,omitempty"`
	Submitted *int     `json:"submitted,omitempty"`
	Awarded   int      `json:"awarded,omitempty"`
}

// TeamVotesView shows one team's election progress. Ballots are included
// only for the viewer's own team, or for the host.
type TeamVotesView struct {
	Cast    int               `json:"cast"`
	Size    int               `json:"size"`
	Ballots map[string]string `json:"ballots,omitempty"`
}

type ChatView struct {
	ID   string `json:"id"`
	Peer string `json:"peerId"`
	Name string `json:"name"`
	Text string `json:"text"`
	At   int64  `json:"at"`
	Team string `json:"team,omitempty"`
}

type PausedView struct {
	Origin    string `json:"origin"`
	Remaining int64  `json:"remainingMillis"`
}

// StateSyncMessage is the complete per-viewer room view broadcast after every
// state-affecting event. ServerTime lets clients reconcile their clocks
// against the phase deadline.
type StateSyncMessage struct {
	Type          string                   `json:"type"` // "state-sync"
	RoomID        string                   `json:"roomId"`
	Topic         string                   `json:"topic"`
	Phase         string                   `json:"phase"`
	ServerTime    int64                    `json:"serverTime"`
	PhaseEndsAt   int64                    `json:"phaseEndsAt,omitempty"`
	Paused        *PausedView              `json:"paused,omitempty"`
	You           PlayerView               `json:"you"`
	Players       []PlayerView             `json:"players"`
	Scores        map[string]int           `json:"scores"`
	TeamNames     map[string]string        `json:"teamNames"`
	ActiveTeam    string                   `json:"activeTeam,omitempty"`
	QuestionIndex int                      `json:"questionIndex"`
	QuestionCount int                      `json:"questionCount"`
	Question      *QuestionView            `json:"question,omitempty"`
	Votes         map[string]TeamVotesView `json:"votes,omitempty"`
	Chat          []ChatView               `json:"chat"`
}

// projectFor builds the snapshot one viewer is allowed to see. It reads room
// state and mutates nothing.
func (r *Room) projectFor(viewer *Player, now time.Time) StateSyncMessage {
	origin := r.originPhase()
	teamsHidden := origin == phaseLobby

	snap := StateSyncMessage{
		Type:          "state-sync",
		RoomID:        r.id,
		Topic:         r.topic,
		Phase:         string(r.phase),
		ServerTime:    now.UnixMilli(),
		You:           playerView(viewer, teamsHidden),
		Scores:        map[string]int{string(teamA): r.scores[teamA], string(teamB): r.scores[teamB]},
		TeamNames:     map[string]string{string(teamA): r.teamNames[teamA], string(teamB): r.teamNames[teamB]},
		QuestionIndex: r.questionIndex,
		QuestionCount: len(r.questions),
		Chat:          []ChatView{},
	}

	if !r.deadline.IsZero() {
		snap.PhaseEndsAt = r.deadline.UnixMilli()
	}
	if r.paused != nil {
		snap.Paused = &PausedView{
			Origin:    string(r.paused.origin),
			Remaining: r.paused.remaining.Milliseconds(),
		}
	}

	for _, id := range r.order {
		p := r.players[id]
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, playerView(p, teamsHidden))
	}

	if origin == phaseQuestion || origin == phaseReveal {
		snap.ActiveTeam = string(r.activeTeam)
		snap.Question = r.questionView(origin)
	}

	if origin == phaseCaptainVote {
		snap.Votes = r.votesView(viewer)
	}

	for _, m := range r.chat {
		if !chatVisible(m, viewer, r.phase, r.activeTeam) {
			continue
		}
		snap.Chat = append(snap.Chat, ChatView{
			ID:   m.ID,
			Peer: m.Peer,
			Name: m.Name,
			Text: m.Text,
			At:   m.At.UnixMilli(),
			Team: string(m.Scope),
		})
	}

	return snap
}

func playerView(p *Player, teamsHidden bool) PlayerView {
	v := PlayerView{
		PeerID:    p.PeerID,
		Name:      p.Name,
		Team:      string(p.Team),
		IsHost:    p.IsHost,
		IsCaptain: p.IsCaptain,
	}
	if teamsHidden {
		v.Team = ""
		v.IsCaptain = false
	}
	return v
}

func (r *Room) questionView(origin phase) *QuestionView {
	if r.questionIndex < 0 || r.questionIndex >= len(r.questions) {
		return nil
	}
	q := r.questions[r.questionIndex]

	v := &QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Options: q.Options,
	}
	if origin == phaseReveal {
		correct := q.Correct
		v.Correct = &correct
		if r.answerIndex >= 0 {
			submitted := r.answerIndex
			v.Submitted = &submitted
		}
		v.Awarded = r.awarded
	}
	return v
}

func (r *Room) votesView(viewer *Player) map[string]TeamVotesView {
	out := make(map[string]TeamVotesView, 2)
	for _, t := range []team{teamA, teamB} {
		b := r.ballots[t]
		tv := TeamVotesView{
			Cast: b.castCount(),
			Size: len(r.teamMembers(t)),
		}
		if viewer.IsHost || viewer.Team == t {
			tv.Ballots = make(map[string]string, len(b.votes))
			for voter, cand := range b.votes {
				tv.Ballots[voter] = cand
			}
		}
		out[string(t)] = tv
	}
	return out
}
