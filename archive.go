package main

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// Archiver publishes room results to NATS for downstream persistence. It is
// strictly best-effort: with no URL configured, or with the broker down,
// every publish is a no-op and gameplay is unaffected.
type Archiver struct {
	cfg *Config
	nc  *nats.Conn
}

func newArchiver(cfg *Config) *Archiver {
	a := &Archiver{cfg: cfg}

	if cfg.natsURL == "" {
		return a
	}

	nc, err := nats.Connect(cfg.natsURL,
		nats.Name("quizbattle"),
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		logf(cfg, "NATS: Connect to %s failed, result publishing disabled: %v", cfg.natsURL, err)
		return a
	}

	a.nc = nc
	logf(cfg, "NATS: Publishing room results to %s", cfg.natsURL)
	return a
}

func (a *Archiver) publish(subject string, v any) {
	if a == nil || a.nc == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := a.nc.Publish(subject, data); err != nil {
		logf(a.cfg, "NATS: Publish to %s failed: %v", subject, err)
	}
}

type resultsRecord struct {
	RoomID     string            `json:"roomId"`
	Topic      string            `json:"topic"`
	Scores     map[string]int    `json:"scores"`
	TeamNames  map[string]string `json:"teamNames"`
	Winner     string            `json:"winner,omitempty"`
	FinishedAt int64             `json:"finishedAt"`
}

func (a *Archiver) roomResults(r *Room) {
	rec := resultsRecord{
		RoomID:     r.id,
		Topic:      r.topic,
		Scores:     map[string]int{string(teamA): r.scores[teamA], string(teamB): r.scores[teamB]},
		TeamNames:  map[string]string{string(teamA): r.teamNames[teamA], string(teamB): r.teamNames[teamB]},
		FinishedAt: time.Now().UnixMilli(),
	}
	switch {
	case r.scores[teamA] > r.scores[teamB]:
		rec.Winner = string(teamA)
	case r.scores[teamB] > r.scores[teamA]:
		rec.Winner = string(teamB)
	}

	a.publish("quizbattle.results."+r.id, rec)
}

func (a *Archiver) roomClosed(r *Room) {
	a.publish("quizbattle.rooms.closed", map[string]any{
		"roomId":   r.id,
		"closedAt": time.Now().UnixMilli(),
	})
}
