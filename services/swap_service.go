package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitchside/matchday/brackets"
	"github.com/pitchside/matchday/models"
	"github.com/pitchside/matchday/repositories"
)

type SwapService interface {
	// SwapTeams exchanges two teams' positions across the tournament's
	// entire match graph and recomputes which matches enter or leave
	// walkover state. Swapping the same pair twice restores the original
	// placement.
	SwapTeams(ctx context.Context, tournamentID, teamAID, teamBID, actingUserID int) error
}

type swapService struct {
	tx             TxRunner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	locker         *TournamentLocker
	hub            *brackets.Hub
}

func NewSwapService(
	tx TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	locker *TournamentLocker,
	hub *brackets.Hub,
) SwapService {
	return &swapService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		locker:         locker,
		hub:            hub,
	}
}

func (s *swapService) SwapTeams(ctx context.Context, tournamentID, teamAID, teamBID, actingUserID int) error {
	if teamAID == teamBID {
		return ErrIdenticalSwapTeams
	}

	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if tournament.OwnerID != actingUserID {
		return ErrNotTournamentOwner
	}

	for _, id := range []int{teamAID, teamBID} {
		team, err := s.teamRepo.GetByID(ctx, nil, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		if team.TournamentID != tournamentID {
			return ErrTeamNotInTournament
		}
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.swapAndReevaluate(ctx, exec, tournamentID, teamAID, teamBID)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Message{
		Type:    brackets.EventTeamsSwapped,
		Payload: map[string]int{"team_a_id": teamAID, "team_b_id": teamBID},
	})
	return nil
}

func (s *swapService) swapAndReevaluate(ctx context.Context, tx repositories.SQLExecutor, tournamentID, teamAID, teamBID int) error {
	if err := s.matchRepo.SwapTeamSlots(ctx, tx, tournamentID, teamAID, teamBID); err != nil {
		return fmt.Errorf("swapping team slots: %w", err)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID)
	if err != nil {
		return err
	}

	// Feeder matches still to be decided mean an empty slot is "winner not
	// yet known", not an absent opponent; those matches must not walk over.
	pendingFeeders := make(map[int]int)
	feedersByNext := make(map[int][]*models.Match)
	for _, m := range matches {
		if m.NextMatchID == nil {
			continue
		}
		feedersByNext[*m.NextMatchID] = append(feedersByNext[*m.NextMatchID], m)
		switch m.Status {
		case models.MatchStatusCompleted, models.MatchStatusWalkover:
		default:
			pendingFeeders[*m.NextMatchID]++
		}
	}

	for _, m := range matches {
		advance := false
		switch {
		case m.Status == models.MatchStatusWalkover && m.HasBothTeams():
			// The absent side has been restored; the match is playable
			// again.
			m.Status = models.MatchStatusScheduled
			m.WinnerTeamID = nil
		case m.Status == models.MatchStatusWalkover:
			// Still a walkover, but the remaining team may have changed.
			m.WinnerTeamID = m.SoleTeamID()
		case m.Status == models.MatchStatusScheduled && m.SoleTeamID() != nil && pendingFeeders[m.ID] == 0:
			m.Status = models.MatchStatusWalkover
			m.WinnerTeamID = m.SoleTeamID()
			advance = true
		default:
			continue
		}
		if err := s.matchRepo.Update(ctx, tx, m); err != nil {
			return fmt.Errorf("re-evaluating match %d: %w", m.ID, err)
		}
		if advance && m.NextMatchID != nil {
			slot := successorSlot(m, feedersByNext[*m.NextMatchID])
			if err := s.matchRepo.SetTeamSlot(ctx, tx, *m.NextMatchID, slot, *m.WinnerTeamID); err != nil {
				return fmt.Errorf("advancing walkover winner from match %d: %w", m.ID, err)
			}
		}
	}
	return nil
}
