package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectorHidesTeamsInLobby(t *testing.T) {
	r := newTestRoom(t)
	host := join(t, r, "Host", false)
	p1 := join(t, r, "P1", false)

	// Simulate a stale assignment surviving into the lobby; the projection
	// must still blank it for every viewer.
	p1.Team = teamA

	for _, viewer := range []*Player{host, p1} {
		snap := r.projectFor(viewer, time.Now())
		for _, pv := range snap.Players {
			assert.Empty(t, pv.Team, "teams are hidden in the lobby")
		}
	}
}

func TestProjectorHidesTeamsWhilePausedFromLobby(t *testing.T) {
	r := newTestRoom(t)
	host := join(t, r, "Host", false)
	p1 := join(t, r, "P1", false)
	join(t, r, "P2", false)

	require.False(t, leave(r, host))
	require.Equal(t, phaseHostReconnect, r.phase)
	require.Equal(t, phaseLobby, r.paused.origin)

	snap := r.projectFor(p1, time.Now())
	require.NotNil(t, snap.Paused)
	assert.Equal(t, string(phaseLobby), snap.Paused.Origin)
	for _, pv := range snap.Players {
		assert.Empty(t, pv.Team)
	}
}

func TestProjectorShowsTeamsAfterReveal(t *testing.T) {
	r, _ := startedRoom(t)

	p := r.teamMembers(teamA)[0]
	snap := r.projectFor(p, time.Now())

	teams := map[string]int{}
	for _, pv := range snap.Players {
		if pv.Team != "" {
			teams[pv.Team]++
		}
	}
	want := map[string]int{"A": 2, "B": 2}
	if diff := cmp.Diff(want, teams); diff != "" {
		t.Errorf("team counts mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectorVoteVisibility(t *testing.T) {
	r, host := startedRoom(t)
	fireTimer(r)
	require.Equal(t, phaseCaptainVote, r.phase)

	a := r.teamMembers(teamA)
	b := r.teamMembers(teamB)
	require.True(t, r.castCaptainVote(a[0], a[1].PeerID))
	require.True(t, r.castCaptainVote(b[0], b[1].PeerID))

	// A non-host viewer sees its own team's ballots, never the other's.
	snap := r.projectFor(a[0], time.Now())
	require.Contains(t, snap.Votes, "A")
	require.Contains(t, snap.Votes, "B")
	assert.NotNil(t, snap.Votes["A"].Ballots)
	assert.Nil(t, snap.Votes["B"].Ballots)

	// Progress counts are visible for both teams.
	assert.Equal(t, 1, snap.Votes["B"].Cast)
	assert.Equal(t, 2, snap.Votes["B"].Size)

	// The host sees every ballot.
	hostSnap := r.projectFor(host, time.Now())
	want := map[string]string{a[0].PeerID: a[1].PeerID}
	if diff := cmp.Diff(want, hostSnap.Votes["A"].Ballots); diff != "" {
		t.Errorf("host ballot view mismatch (-want +got):\n%s", diff)
	}
	assert.NotNil(t, hostSnap.Votes["B"].Ballots)
}

func TestProjectorQuestionRedaction(t *testing.T) {
	r, _ := namedRoom(t)

	p := r.teamMembers(teamA)[0]
	snap := r.projectFor(p, time.Now())

	require.NotNil(t, snap.Question)
	assert.Nil(t, snap.Question.Correct, "the correct option must not leak before the reveal")
	assert.Nil(t, snap.Question.Submitted)
	assert.NotEmpty(t, snap.Question.Options)

	capA := r.players[r.captains[teamA]]
	correct := r.questions[0].Correct
	require.True(t, r.submitAnswer(capA, correct))

	snap = r.projectFor(p, time.Now())
	require.NotNil(t, snap.Question)
	require.NotNil(t, snap.Question.Correct)
	assert.Equal(t, correct, *snap.Question.Correct)
	require.NotNil(t, snap.Question.Submitted)
	assert.Equal(t, correct, *snap.Question.Submitted)
	assert.Equal(t, pointsPerCorrect, snap.Question.Awarded)
}

func TestProjectorCarriesServerTimeAndDeadline(t *testing.T) {
	r, _ := startedRoom(t)

	now := time.Now()
	snap := r.projectFor(r.firstPlayer(), now)

	assert.Equal(t, now.UnixMilli(), snap.ServerTime)
	assert.Equal(t, r.deadline.UnixMilli(), snap.PhaseEndsAt)
}

func TestProjectorIsReadOnly(t *testing.T) {
	r, _ := namedRoom(t)
	p := r.teamMembers(teamA)[0]

	before := r.projectFor(p, time.Unix(0, 0))
	after := r.projectFor(p, time.Unix(0, 0))

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("projection must be a pure function of state (-first +second):\n%s", diff)
	}
}
