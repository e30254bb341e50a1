package service

import (
	"context"
	"fmt"

	"minebot/models"
)

// teamService implements the TeamService interface
type teamService struct {
	uowFactory UnitOfWorkFactory
}

// NewTeamService creates a new team service
func NewTeamService(uowFactory UnitOfWorkFactory) TeamService {
	return &teamService{uowFactory: uowFactory}
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TeamRepository().GetAll(ctx)
}

func (s *teamService) AddTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	created, err := uow.TeamRepository().Create(ctx, team)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

func (s *teamService) RemoveTeam(ctx context.Context, id int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TeamRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
