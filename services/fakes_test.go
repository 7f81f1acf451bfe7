package services

import (
	"context"
	"sort"

	"github.com/pitchside/matchday/models"
	"github.com/pitchside/matchday/repositories"
)

// In-memory repository doubles. They mirror the SQL behavior closely
// enough for service-level tests: status filtering, seed ordering, delta
// application with the bounded form trail, and the reference swap.

func intPtr(v int) *int {
	return &v
}

type fakeTxRunner struct {
	err   error
	calls int
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	statusLog   []models.BracketStatus
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) UpdateBracketStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.BracketStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BracketStatus = status
	r.statusLog = append(r.statusLog, status)
	return nil
}

type fakeTeamRepo struct {
	teams      map[int]*models.Team
	resetCalls int
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, statusFilter ...models.TeamStatus) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.teams {
		if t.TournamentID != tournamentID {
			continue
		}
		if len(statusFilter) > 0 {
			matched := false
			for _, s := range statusFilter {
				if t.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seed != out[j].Seed {
			return out[i].Seed < out[j].Seed
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTeamRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TeamStatus) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTeamRepo) ApplyResultDelta(ctx context.Context, exec repositories.SQLExecutor, id int, delta repositories.TeamResultDelta) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	s := &t.Stats
	s.Played++
	s.Wins += delta.Wins
	s.Draws += delta.Draws
	s.Losses += delta.Losses
	s.GoalsFor += delta.GoalsFor
	s.GoalsAgainst += delta.GoalsAgainst
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	s.Points += delta.Points
	if delta.FormSymbol != "" {
		s.Form = append(s.Form, delta.FormSymbol)
		if len(s.Form) > models.FormLength {
			s.Form = s.Form[len(s.Form)-models.FormLength:]
		}
	}
	return nil
}

func (r *fakeTeamRepo) ResetForRegeneration(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	r.resetCalls++
	for _, t := range r.teams {
		if t.TournamentID != tournamentID {
			continue
		}
		if t.Status != models.TeamStatusActive && t.Status != models.TeamStatusEliminated {
			continue
		}
		t.Status = models.TeamStatusActive
		t.Stats = models.TeamStats{}
	}
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match

	// When set, ListByTournament fails with it.
	listErr error
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) list(filter func(*models.Match) bool) []*models.Match {
	var out []*models.Match
	for _, m := range r.matches {
		if filter(m) {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.list(func(m *models.Match) bool { return m.TournamentID == tournamentID }), nil
}

func (r *fakeMatchRepo) ListByNextMatch(ctx context.Context, exec repositories.SQLExecutor, nextMatchID int) ([]*models.Match, error) {
	return r.list(func(m *models.Match) bool {
		return m.NextMatchID != nil && *m.NextMatchID == nextMatchID
	}), nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) SetTeamSlot(ctx context.Context, exec repositories.SQLExecutor, id int, slot repositories.MatchSlot, teamID int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	v := teamID
	if slot == repositories.SlotHome {
		m.HomeTeamID = &v
	} else {
		m.AwayTeamID = &v
	}
	return nil
}

func (r *fakeMatchRepo) SwapTeamSlots(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamAID, teamBID int) error {
	swap := func(ref *int) *int {
		if ref == nil {
			return nil
		}
		switch *ref {
		case teamAID:
			v := teamBID
			return &v
		case teamBID:
			v := teamAID
			return &v
		}
		return ref
	}
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		m.HomeTeamID = swap(m.HomeTeamID)
		m.AwayTeamID = swap(m.AwayTeamID)
		m.WinnerTeamID = swap(m.WinnerTeamID)
	}
	return nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			delete(r.matches, id)
		}
	}
	return nil
}

type notifierCall struct {
	match *models.Match
	teams []*models.Team
}

type recordingNotifier struct {
	calls []notifierCall
}

func (n *recordingNotifier) MatchUpdated(ctx context.Context, tournament *models.Tournament, match *models.Match, teams []*models.Team) {
	n.calls = append(n.calls, notifierCall{match: match, teams: teams})
}
