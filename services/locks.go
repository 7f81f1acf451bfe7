package services

import "sync"

// TournamentLocker provides per-tournament mutual exclusion. Bracket
// generation and team swaps perform many sequential writes over the same
// match set; serializing them per tournament keeps next-match links from
// being corrupted by a concurrent regeneration or swap. One locker is
// shared by every service touching the match graph.
type TournamentLocker struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewTournamentLocker() *TournamentLocker {
	return &TournamentLocker{locks: make(map[int]*sync.Mutex)}
}

// Lock acquires the tournament's mutex and returns its unlock func.
func (l *TournamentLocker) Lock(tournamentID int) func() {
	l.mu.Lock()
	m, ok := l.locks[tournamentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tournamentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
