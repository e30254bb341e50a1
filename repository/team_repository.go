package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// TeamRepository implements the service.TeamRepository interface
type TeamRepository struct {
	q queryable
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{q: db.Pool}
}

// newTeamRepositoryWithTx creates a new team repository with a transaction
func newTeamRepositoryWithTx(tx queryable) *TeamRepository {
	return &TeamRepository{q: tx}
}

// GetAll returns all team profiles
func (r *TeamRepository) GetAll(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT id, name, email, photo, country FROM teams ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Email, &team.Photo, &team.Country); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

// GetByID retrieves a team profile, nil if absent
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `SELECT id, name, email, photo, country FROM teams WHERE id = $1`

	var team models.Team
	err := r.q.QueryRow(ctx, query, id).Scan(&team.ID, &team.Name, &team.Email, &team.Photo, &team.Country)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	return &team, nil
}

// Create stores a new team profile
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	query := `
		INSERT INTO teams (name, email, photo, country)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.q.QueryRow(ctx, query, team.Name, team.Email, team.Photo, team.Country).Scan(&team.ID); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// Delete removes a team profile
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("team %d not found", id)
	}
	return nil
}
