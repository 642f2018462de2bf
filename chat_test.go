package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLogCapEvictsOldest(t *testing.T) {
	r := newTestRoom(t)
	host := join(t, r, "Host", false)

	for i := 0; i < chatLogCap+5; i++ {
		require.True(t, r.sendChat(host, fmt.Sprintf("msg %d", i)))
	}

	require.Len(t, r.chat, chatLogCap)
	assert.Equal(t, "msg 5", r.chat[0].Text, "oldest entries are evicted first")
	assert.Equal(t, fmt.Sprintf("msg %d", chatLogCap+4), r.chat[len(r.chat)-1].Text)
}

func TestChatIgnoresEmptyAndTruncatesLong(t *testing.T) {
	r := newTestRoom(t)
	host := join(t, r, "Host", false)

	require.False(t, r.sendChat(host, "   "))

	long := ""
	for i := 0; i < chatTextLimit+50; i++ {
		long += "x"
	}
	require.True(t, r.sendChat(host, long))
	assert.Len(t, []rune(r.chat[0].Text), chatTextLimit)
}

func TestChatScopeTagging(t *testing.T) {
	r, host := startedRoom(t)

	member := r.teamMembers(teamA)[0]
	require.True(t, r.sendChat(member, "team talk"))
	require.True(t, r.sendChat(host, "host talk"))

	assert.Equal(t, teamA, r.chat[0].Scope)
	assert.Equal(t, teamNone, r.chat[1].Scope, "host messages are room-wide")
}

func TestChatVisibilityMatrix(t *testing.T) {
	host := &Player{PeerID: "h", IsHost: true}
	onA := &Player{PeerID: "a", Team: teamA}
	onB := &Player{PeerID: "b", Team: teamB}

	teamMsg := ChatMessage{Scope: teamA}
	openMsg := ChatMessage{Scope: teamNone}

	// Outside the question phase: team scope limits to that team plus host.
	assert.True(t, chatVisible(teamMsg, host, phaseTeamNaming, teamNone))
	assert.True(t, chatVisible(teamMsg, onA, phaseTeamNaming, teamNone))
	assert.False(t, chatVisible(teamMsg, onB, phaseTeamNaming, teamNone))

	// Room-wide messages are visible to everyone.
	assert.True(t, chatVisible(openMsg, onB, phaseTeamNaming, teamNone))

	// During the question phase, team-scoped messages additionally require
	// membership on the active team. The host rule is evaluated first and
	// always passes.
	assert.True(t, chatVisible(teamMsg, onA, phaseQuestion, teamA))
	assert.False(t, chatVisible(teamMsg, onA, phaseQuestion, teamB))
	assert.True(t, chatVisible(teamMsg, host, phaseQuestion, teamB))
	assert.False(t, chatVisible(teamMsg, onB, phaseQuestion, teamB))
}

func TestChatClearedOnQuestionEntry(t *testing.T) {
	r, _ := votedRoom(t)

	capA := r.players[r.captains[teamA]]
	require.True(t, r.sendChat(capA, "pre-question chatter"))
	require.NotEmpty(t, r.chat)

	capB := r.players[r.captains[teamB]]
	require.True(t, r.setTeamName(capA, "Alpha", false))
	require.True(t, r.setTeamName(capB, "Beta", false))

	require.Equal(t, phaseQuestion, r.phase)
	assert.Empty(t, r.chat)
}

func TestChatMessagesCarryIDsAndTimestamps(t *testing.T) {
	r := newTestRoom(t)
	host := join(t, r, "Host", false)

	before := time.Now().Add(-time.Second)
	require.True(t, r.sendChat(host, "hello"))

	m := r.chat[0]
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, host.PeerID, m.Peer)
	assert.True(t, m.At.After(before))
}
