package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/pitchside/matchday/brackets"
	"github.com/pitchside/matchday/models"
	"github.com/pitchside/matchday/repositories"
	"golang.org/x/sync/errgroup"
)

// RoundView groups a round's matches under its display label.
type RoundView struct {
	Round   int             `json:"round"`
	Name    string          `json:"name"`
	Matches []*models.Match `json:"matches"`
}

// BracketView is the full match graph of one tournament, grouped by round,
// with participant teams joined in.
type BracketView struct {
	Tournament *models.Tournament `json:"tournament"`
	Rounds     []RoundView        `json:"rounds"`
}

type BracketService interface {
	// Generate builds and persists the complete match graph for the
	// tournament's format. Regeneration is destructive: the previous match
	// set is discarded and eliminated teams return to play with zeroed
	// stats.
	Generate(ctx context.Context, tournamentID, actingUserID int) (*BracketView, error)
	List(ctx context.Context, tournamentID int) (*BracketView, error)
	Standings(ctx context.Context, tournamentID int) ([]*models.Team, error)
}

type bracketService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	locker         *TournamentLocker
	hub            *brackets.Hub

	// Overridable for deterministic tests.
	shuffle func([]int)
}

func NewBracketService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	locker *TournamentLocker,
	hub *brackets.Hub,
) BracketService {
	return &bracketService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		locker:         locker,
		hub:            hub,
		shuffle: func(ids []int) {
			rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		},
	}
}

func (s *bracketService) Generate(ctx context.Context, tournamentID, actingUserID int) (*BracketView, error) {
	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.OwnerID != actingUserID {
		return nil, ErrNotTournamentOwner
	}

	// Eligible means active plus previously eliminated; eliminated teams
	// come back once the reset below runs. Withdrawn and disqualified
	// teams stay out of the draw.
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID,
		models.TeamStatusActive, models.TeamStatusEliminated)
	if err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}

	plan, generator, err := s.buildPlan(tournament, teams)
	if err != nil {
		return nil, err
	}
	log.Printf("bracket: tournament %d, generator %s, teams %d, rounds %d, byes %d",
		tournamentID, generator.Name(), len(teams), plan.TotalRounds, plan.Byes)

	if err := s.tournamentRepo.UpdateBracketStatus(ctx, nil, tournamentID, models.BracketGenerating); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.persistPlan(ctx, exec, tournament, plan)
	})
	if err != nil {
		s.markFailed(ctx, tournamentID)
		return nil, fmt.Errorf("%w: %v", ErrBracketGenerationFailed, err)
	}

	view, err := s.List(ctx, tournamentID)
	if err != nil {
		// The graph committed and the tournament is ready; only the read
		// back failed. Surfaced apart from ErrBracketGenerationFailed so
		// callers retry the read instead of regenerating.
		return nil, fmt.Errorf("bracket is ready but could not be read back: %w", err)
	}
	s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Message{
		Type:    brackets.EventBracketGenerated,
		Payload: view,
	})
	return view, nil
}

// buildPlan resolves seeding, shuffles or ranks the team order, and runs
// the format's generator. Unsupported formats deliberately fall back to
// single elimination; that default is part of the generation contract.
func (s *bracketService) buildPlan(tournament *models.Tournament, teams []*models.Team) (*brackets.Plan, brackets.Generator, error) {
	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	switch tournament.Seeding {
	case models.SeedingRanked:
		// ListByTournament already orders by stored seed value.
	default:
		s.shuffle(ids)
	}

	var generator brackets.Generator
	switch tournament.Format {
	case models.FormatRoundRobin:
		generator = brackets.NewRoundRobinGenerator()
	case models.FormatSingleElimination:
		generator = brackets.NewSingleEliminationGenerator()
	default:
		log.Printf("bracket: no generator for format %q, falling back to single elimination", tournament.Format)
		generator = brackets.NewSingleEliminationGenerator()
	}

	plan, err := generator.Generate(ids)
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughTeams) {
			return nil, nil, ErrInsufficientTeams
		}
		return nil, nil, err
	}
	return plan, generator, nil
}

// persistPlan replaces the tournament's match set with the planned graph.
// Rounds are written from the final backwards so every next-match link is
// resolvable at insert time.
func (s *bracketService) persistPlan(ctx context.Context, tx repositories.SQLExecutor, tournament *models.Tournament, plan *brackets.Plan) error {
	if err := s.teamRepo.ResetForRegeneration(ctx, tx, tournament.ID); err != nil {
		return fmt.Errorf("resetting teams: %w", err)
	}
	if err := s.matchRepo.DeleteByTournament(ctx, tx, tournament.ID); err != nil {
		return fmt.Errorf("discarding previous matches: %w", err)
	}

	byRound := make(map[int][]*brackets.PlannedMatch)
	for _, pm := range plan.Matches {
		byRound[pm.Round] = append(byRound[pm.Round], pm)
	}

	idByPos := make(map[[2]int]int, len(plan.Matches))
	for round := plan.TotalRounds; round >= 1; round-- {
		for _, pm := range byRound[round] {
			match := &models.Match{
				TournamentID: tournament.ID,
				Round:        pm.Round,
				RoundName:    roundLabel(tournament.Format, pm.Round, plan.TotalRounds),
				MatchNumber:  pm.MatchNumber,
				HomeTeamID:   pm.HomeTeamID,
				AwayTeamID:   pm.AwayTeamID,
				Status:       models.MatchStatusScheduled,
				BracketRound: pm.Round - 1,
				BracketSlot:  pm.Slot,
			}
			if pm.NextRound > 0 {
				nextID, ok := idByPos[[2]int{pm.NextRound, pm.NextSlot}]
				if !ok {
					return fmt.Errorf("successor (%d,%d) missing for match %d/%d",
						pm.NextRound, pm.NextSlot, pm.Round, pm.Slot)
				}
				match.NextMatchID = &nextID
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("creating match %d/%d: %w", pm.Round, pm.Slot, err)
			}
			idByPos[[2]int{pm.Round, pm.Slot}] = match.ID
		}
	}

	return s.tournamentRepo.UpdateBracketStatus(ctx, tx, tournament.ID, models.BracketReady)
}

func (s *bracketService) markFailed(ctx context.Context, tournamentID int) {
	if err := s.tournamentRepo.UpdateBracketStatus(ctx, nil, tournamentID, models.BracketFailed); err != nil {
		log.Printf("bracket: marking tournament %d failed: %v", tournamentID, err)
	}
}

func (s *bracketService) List(ctx context.Context, tournamentID int) (*BracketView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var (
		matches []*models.Match
		teams   []*models.Team
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	view := &BracketView{Tournament: tournament, Rounds: []RoundView{}}
	for _, m := range matches {
		if m.HomeTeamID != nil {
			m.HomeTeam = teamsByID[*m.HomeTeamID]
		}
		if m.AwayTeamID != nil {
			m.AwayTeam = teamsByID[*m.AwayTeamID]
		}
		if len(view.Rounds) == 0 || view.Rounds[len(view.Rounds)-1].Round != m.Round {
			view.Rounds = append(view.Rounds, RoundView{Round: m.Round, Name: m.RoundName})
		}
		last := &view.Rounds[len(view.Rounds)-1]
		last.Matches = append(last.Matches, m)
	}
	return view, nil
}

// Standings lists the tournament's teams ordered the way league tables
// break ties: points, then goal difference, then goals for.
func (s *bracketService) Standings(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := teams[i].Stats, teams[j].Stats
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}
