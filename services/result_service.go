package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pitchside/matchday/brackets"
	"github.com/pitchside/matchday/models"
	"github.com/pitchside/matchday/repositories"
)

// ResultInput is the report-result payload. Nil fields are left untouched.
type ResultInput struct {
	HomeScore   *int                `json:"home_score"`
	AwayScore   *int                `json:"away_score"`
	HomePenalty *int                `json:"home_penalty"`
	AwayPenalty *int                `json:"away_penalty"`
	Status      *models.MatchStatus `json:"status"`
	ScheduledAt *time.Time          `json:"scheduled_at"`
	Notes       *string             `json:"notes"`
}

type ResultService interface {
	// Report resolves a match result: validates the transition, determines
	// the winner, applies the teams' stats deltas, marks elimination and
	// advances the winner into the successor match where one exists.
	Report(ctx context.Context, matchID, actingUserID int, input ResultInput) (*models.Match, error)
}

type resultService struct {
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	notifier       Notifier
	hub            *brackets.Hub

	now func() time.Time
}

func NewResultService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	notifier Notifier,
	hub *brackets.Hub,
) ResultService {
	return &resultService{
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		notifier:       notifier,
		hub:            hub,
		now:            time.Now,
	}
}

func (s *resultService) Report(ctx context.Context, matchID, actingUserID int, input ResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.OwnerID != actingUserID {
		return nil, ErrNotTournamentOwner
	}

	// A decided match is immutable: reopening it to scheduled would leave
	// its winner seated in the successor and the loser eliminated, and a
	// second completion would apply the stats deltas twice. Corrections go
	// through regeneration.
	if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusWalkover {
		return nil, ErrMatchAlreadyDecided
	}

	if input.ScheduledAt != nil {
		match.ScheduledAt = input.ScheduledAt
	}
	if input.Notes != nil {
		match.Notes = input.Notes
	}
	if input.HomeScore != nil {
		match.HomeScore = input.HomeScore
	}
	if input.AwayScore != nil {
		match.AwayScore = input.AwayScore
	}
	if input.HomePenalty != nil {
		match.HomePenalty = input.HomePenalty
	}
	if input.AwayPenalty != nil {
		match.AwayPenalty = input.AwayPenalty
	}

	target := match.Status
	if input.Status != nil {
		target = *input.Status
	} else if input.HomeScore != nil && input.AwayScore != nil {
		// Scores with no explicit status mean the match is being closed.
		target = models.MatchStatusCompleted
	}

	switch target {
	case models.MatchStatusCompleted:
		if err := s.complete(ctx, tournament, match); err != nil {
			return nil, err
		}
	case models.MatchStatusLive:
		if match.StartedAt == nil {
			now := s.now()
			match.StartedAt = &now
		}
		match.Status = target
		if err := s.matchRepo.Update(ctx, nil, match); err != nil {
			return nil, err
		}
	case models.MatchStatusScheduled, models.MatchStatusPostponed, models.MatchStatusCancelled:
		match.Status = target
		if err := s.matchRepo.Update(ctx, nil, match); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMatchStatus, target)
	}

	s.dispatchUpdate(ctx, tournament, match)
	return match, nil
}

// complete closes the match node: computes the winner, records the stats
// deltas, marks the loser eliminated in knockout play, and advances the
// winner into the successor slot.
func (s *resultService) complete(ctx context.Context, tournament *models.Tournament, match *models.Match) error {
	if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusWalkover {
		return ErrMatchAlreadyDecided
	}
	if !match.HasBothTeams() {
		return ErrMatchMissingTeams
	}
	if match.HomeScore == nil || match.AwayScore == nil {
		return ErrScoresRequired
	}

	match.WinnerTeamID = decideWinner(match)
	match.Status = models.MatchStatusCompleted
	now := s.now()
	match.CompletedAt = &now

	if err := s.matchRepo.Update(ctx, nil, match); err != nil {
		return err
	}

	if err := s.applyStats(ctx, match); err != nil {
		return err
	}

	if match.WinnerTeamID != nil {
		if tournament.Format != models.FormatRoundRobin {
			loserID := *match.HomeTeamID
			if loserID == *match.WinnerTeamID {
				loserID = *match.AwayTeamID
			}
			if err := s.teamRepo.UpdateStatus(ctx, nil, loserID, models.TeamStatusEliminated); err != nil {
				return err
			}
		}
		if err := s.propagateWinner(ctx, match, *match.WinnerTeamID); err != nil {
			return err
		}
	}
	return nil
}

// decideWinner picks the higher score, falling back to the penalty shootout
// when the teams are level. Level with no (or level) penalties is a draw:
// no winner.
func decideWinner(match *models.Match) *int {
	switch {
	case *match.HomeScore > *match.AwayScore:
		return match.HomeTeamID
	case *match.AwayScore > *match.HomeScore:
		return match.AwayTeamID
	}
	if match.HomePenalty != nil && match.AwayPenalty != nil {
		switch {
		case *match.HomePenalty > *match.AwayPenalty:
			return match.HomeTeamID
		case *match.AwayPenalty > *match.HomePenalty:
			return match.AwayTeamID
		}
	}
	return nil
}

func (s *resultService) applyStats(ctx context.Context, match *models.Match) error {
	homeDelta := repositories.TeamResultDelta{
		GoalsFor:     *match.HomeScore,
		GoalsAgainst: *match.AwayScore,
	}
	awayDelta := repositories.TeamResultDelta{
		GoalsFor:     *match.AwayScore,
		GoalsAgainst: *match.HomeScore,
	}

	switch {
	case match.WinnerTeamID == nil:
		homeDelta.Draws, homeDelta.Points, homeDelta.FormSymbol = 1, 1, "D"
		awayDelta.Draws, awayDelta.Points, awayDelta.FormSymbol = 1, 1, "D"
	case *match.WinnerTeamID == *match.HomeTeamID:
		homeDelta.Wins, homeDelta.Points, homeDelta.FormSymbol = 1, 3, "W"
		awayDelta.Losses, awayDelta.FormSymbol = 1, "L"
	default:
		awayDelta.Wins, awayDelta.Points, awayDelta.FormSymbol = 1, 3, "W"
		homeDelta.Losses, homeDelta.FormSymbol = 1, "L"
	}

	if err := s.teamRepo.ApplyResultDelta(ctx, nil, *match.HomeTeamID, homeDelta); err != nil {
		return fmt.Errorf("applying home stats: %w", err)
	}
	if err := s.teamRepo.ApplyResultDelta(ctx, nil, *match.AwayTeamID, awayDelta); err != nil {
		return fmt.Errorf("applying away stats: %w", err)
	}
	return nil
}

// propagateWinner places the winner into the successor match, deriving the
// slot from sibling order (see successorSlot). Final-round matches have no
// successor and nothing to do.
func (s *resultService) propagateWinner(ctx context.Context, match *models.Match, winnerID int) error {
	if match.NextMatchID == nil {
		return nil
	}

	feeders, err := s.matchRepo.ListByNextMatch(ctx, nil, *match.NextMatchID)
	if err != nil {
		return err
	}
	slot := successorSlot(match, feeders)
	return s.matchRepo.SetTeamSlot(ctx, nil, *match.NextMatchID, slot, winnerID)
}

// dispatchUpdate triggers the external notification hook for each
// participating captain and pushes the update to the tournament's
// websocket room.
func (s *resultService) dispatchUpdate(ctx context.Context, tournament *models.Tournament, match *models.Match) {
	var teams []*models.Team
	for _, id := range []*int{match.HomeTeamID, match.AwayTeamID} {
		if id == nil {
			continue
		}
		team, err := s.teamRepo.GetByID(ctx, nil, *id)
		if err != nil {
			log.Printf("result: loading team %d for notification: %v", *id, err)
			continue
		}
		teams = append(teams, team)
	}

	s.notifier.MatchUpdated(ctx, tournament, match, teams)
	s.hub.BroadcastToRoom(tournamentRoom(tournament.ID), brackets.Message{
		Type:    brackets.EventMatchUpdated,
		Payload: match,
	})
}
