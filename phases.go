package main

import (
	"time"
)

const (
	teamRevealDuration  = 10 * time.Second
	captainVoteDuration = 30 * time.Second
	teamNamingDuration  = 45 * time.Second
	questionDuration    = 30 * time.Second
	revealDuration      = 8 * time.Second

	pointsPerCorrect = 10

	defaultTeamNameA = "Team A"
	defaultTeamNameB = "Team B"

	// Floor for rearmed residual timers, so a deadline that lapsed during a
	// pause still fires through the usual path instead of being skipped.
	minResidual = 250 * time.Millisecond
)

// armTimer replaces the room's single outstanding timer. The sequence counter
// invalidates any fire already in flight from the previous timer.
func (r *Room) armTimer(d time.Duration) {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timerSeq++
	seq := r.timerSeq
	r.deadline = time.Now().Add(d)
	r.timer = time.AfterFunc(d, func() {
		r.post(timerEvent{seq: seq})
	})
}

func (r *Room) cancelTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerSeq++
	r.deadline = time.Time{}
}

func (r *Room) setPhase(p phase) {
	r.phase = p
	phaseTransitionsTotal.WithLabelValues(string(p)).Inc()
	logf(r.cfg, "PHASE: Room %s entered %s", r.id, p)
}

func (r *Room) handleTimer(seq uint64) {
	if seq != r.timerSeq {
		// Stale fire from a timer cancelled after it was already queued.
		return
	}

	switch r.phase {
	case phaseTeamReveal:
		r.enterCaptainVote()
	case phaseCaptainVote:
		r.finalizeCaptains()
	case phaseTeamNaming:
		r.advanceToQuestions()
	case phaseQuestion:
		r.enterReveal()
	case phaseReveal:
		r.advanceAfterReveal()
	case phaseHostReconnect:
		r.promoteFallbackHost()
	}

	r.broadcast()
}

// startGame partitions all non-host players into two teams by a uniform
// shuffle with alternating labels, then kicks off the reveal countdown.
func (r *Room) startGame(p *Player) bool {
	if !p.IsHost || r.phase != phaseLobby {
		return false
	}

	members := r.nonHosts()
	if len(members) == 0 {
		return false
	}

	r.rng.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})
	for i, m := range members {
		if i%2 == 0 {
			m.Team = teamA
		} else {
			m.Team = teamB
		}
		m.IsCaptain = false
	}

	r.scores[teamA], r.scores[teamB] = 0, 0
	r.captains = map[team]string{}
	r.ballots = map[team]*ballotBox{teamA: newBallotBox(), teamB: newBallotBox()}
	r.namedReady = map[team]bool{}
	r.teamNames = map[team]string{teamA: defaultTeamNameA, teamB: defaultTeamNameB}

	r.setPhase(phaseTeamReveal)
	r.armTimer(teamRevealDuration)
	return true
}

func (r *Room) enterCaptainVote() {
	r.captains = map[team]string{}
	r.ballots = map[team]*ballotBox{teamA: newBallotBox(), teamB: newBallotBox()}
	for _, p := range r.players {
		p.IsCaptain = false
	}

	r.setPhase(phaseCaptainVote)
	r.armTimer(captainVoteDuration)
	r.checkVoteReadiness()
}

func (r *Room) castCaptainVote(p *Player, candidateID string) bool {
	if r.phase != phaseCaptainVote || p.Team == teamNone {
		return false
	}

	cand := r.players[candidateID]
	if cand == nil || cand.IsHost || cand.Team != p.Team || cand.PeerID == p.PeerID {
		return false
	}

	r.ballots[p.Team].cast(p.PeerID, candidateID)
	r.checkVoteReadiness()
	return true
}

// checkVoteReadiness closes the vote early once every member of both teams
// has a standing ballot.
func (r *Room) checkVoteReadiness() {
	if r.phase != phaseCaptainVote {
		return
	}
	if r.teamVoteReady(teamA) && r.teamVoteReady(teamB) {
		r.finalizeCaptains()
	}
}

func (r *Room) teamVoteReady(t team) bool {
	return r.ballots[t].castCount() >= len(r.teamMembers(t))
}

// finalizeCaptains resolves each team's captain: plurality winner, ties and
// vote-less teams broken by uniform random choice, empty teams left without.
func (r *Room) finalizeCaptains() {
	if r.phase != phaseCaptainVote {
		return
	}

	for _, t := range []team{teamA, teamB} {
		members := r.teamMembers(t)
		if len(members) == 0 {
			r.captains[t] = ""
			continue
		}

		var pick string
		if leaders := r.ballots[t].leaders(); len(leaders) > 0 {
			pick = leaders[r.rng.Intn(len(leaders))]
		} else {
			pick = members[r.rng.Intn(len(members))].PeerID
		}

		r.captains[t] = pick
		if p := r.players[pick]; p != nil {
			p.IsCaptain = true
		}
	}

	r.enterTeamNaming()
}

func (r *Room) enterTeamNaming() {
	for _, t := range []team{teamA, teamB} {
		r.namedReady[t] = len(r.teamMembers(t)) == 0 || r.captains[t] == ""
	}

	r.setPhase(phaseTeamNaming)
	r.armTimer(teamNamingDuration)
	r.checkNamingDone()
}

func (r *Room) setTeamName(p *Player, name string, random bool) bool {
	if r.phase != phaseTeamNaming || !p.IsCaptain || p.Team == teamNone {
		return false
	}

	t := p.Team
	if r.namedReady[t] {
		return false
	}

	if random {
		name = r.randomTeamName()
	} else {
		name = sanitizeTeamName(name)
		if name == "" {
			return false
		}
	}

	r.teamNames[t] = name
	r.namedReady[t] = true
	r.checkNamingDone()
	return true
}

func (r *Room) checkNamingDone() {
	if r.phase != phaseTeamNaming {
		return
	}
	if r.namedReady[teamA] && r.namedReady[teamB] {
		r.advanceToQuestions()
	}
}

func (r *Room) advanceToQuestions() {
	r.scores[teamA], r.scores[teamB] = 0, 0
	r.enterQuestion(0)
}

func (r *Room) enterQuestion(i int) {
	r.questionIndex = i
	if i%2 == 0 {
		r.activeTeam = teamA
	} else {
		r.activeTeam = teamB
	}
	r.answered = false
	r.answerIndex = -1
	r.awarded = 0
	r.chat = nil

	r.setPhase(phaseQuestion)
	r.armTimer(questionDuration)
}

// submitAnswer admits exactly one submission per question, from the active
// team's captain only. Anything but an exact match scores zero.
func (r *Room) submitAnswer(p *Player, idx int) bool {
	if r.phase != phaseQuestion || r.answered {
		return false
	}
	if !p.IsCaptain || p.Team != r.activeTeam {
		return false
	}

	r.answered = true
	r.answerIndex = idx

	if idx == r.questions[r.questionIndex].Correct {
		r.scores[r.activeTeam] += pointsPerCorrect
		r.awarded = pointsPerCorrect
	}

	r.enterReveal()
	return true
}

func (r *Room) enterReveal() {
	r.setPhase(phaseReveal)
	r.armTimer(revealDuration)
}

func (r *Room) advanceAfterReveal() {
	if r.questionIndex+1 < len(r.questions) {
		r.enterQuestion(r.questionIndex + 1)
		return
	}
	r.enterResults()
}

func (r *Room) enterResults() {
	r.cancelTimer()
	r.setPhase(phaseResults)
	r.mgr.archive.roomResults(r)
}

// newGame returns a finished room to the lobby with a freshly drawn question
// set for the same topic and count.
func (r *Room) newGame(p *Player) bool {
	if !p.IsHost || r.phase != phaseResults {
		return false
	}

	for _, pl := range r.players {
		pl.Team = teamNone
		pl.IsCaptain = false
	}
	r.scores[teamA], r.scores[teamB] = 0, 0
	r.captains = map[team]string{}
	r.ballots = map[team]*ballotBox{teamA: newBallotBox(), teamB: newBallotBox()}
	r.namedReady = map[team]bool{}
	r.teamNames = map[team]string{teamA: defaultTeamNameA, teamB: defaultTeamNameB}
	r.questionIndex = 0
	r.activeTeam = teamNone
	r.answered = false
	r.answerIndex = -1
	r.awarded = 0
	r.questions = r.mgr.bank.Draw(r.topic, r.questionCount, r.rng)

	r.setPhase(phaseLobby)
	return true
}

// pauseForHostLoss captures the live phase and its residual time, stops all
// timers, and arms the single promotion window. Exactly one of the window
// expiry and a matching reconnect completes the pause.
func (r *Room) pauseForHostLoss(hostName string) {
	origin := r.phase

	var remaining time.Duration
	if !r.deadline.IsZero() {
		remaining = time.Until(r.deadline)
		if remaining < 0 {
			remaining = 0
		}
	}

	r.cancelTimer()
	r.paused = &pausedPhase{origin: origin, remaining: remaining}
	r.lastHostName = normalizeName(hostName)

	r.setPhase(phaseHostReconnect)
	r.armTimer(r.cfg.reconnectWait)
}

// promoteFallbackHost runs when the reconnect window lapses with no matching
// claim: any remaining connected player takes over as host.
func (r *Room) promoteFallbackHost() {
	p := r.firstPlayer()
	if p == nil {
		return
	}

	if r.paused != nil && r.paused.origin == phaseLobby {
		r.clearTeams()
	}
	r.promoteHost(p)
	r.resume()
}

func (r *Room) clearTeams() {
	for _, p := range r.players {
		p.Team = teamNone
		p.IsCaptain = false
	}
	r.captains = map[team]string{}
	r.ballots = map[team]*ballotBox{teamA: newBallotBox(), teamB: newBallotBox()}
	r.namedReady = map[team]bool{}
}

// resume restores the captured phase, rearming its timer with the residual
// duration rather than a fresh one.
func (r *Room) resume() {
	if r.paused == nil {
		return
	}

	origin := r.paused.origin
	remaining := r.paused.remaining
	r.paused = nil
	r.lastHostName = ""
	r.cancelTimer()

	r.setPhase(origin)
	if origin != phaseLobby {
		if remaining < minResidual {
			remaining = minResidual
		}
		r.armTimer(remaining)
	}

	// Membership may have shifted during the pause; the restored phase has to
	// re-evaluate its readiness.
	r.checkVoteReadiness()
	r.checkNamingDone()
}
