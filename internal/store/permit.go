package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"raven-dgc/internal/entities"
)

const permitColumns = `id, permit_name, status, validity_date, team_ids,
	       coes_granted, workspace_id, creation_date, update_date`

// CreatePermit inserts a permit row and fills in the generated id.
func (s *Store) CreatePermit(ctx context.Context, p *entities.Permit) error {
	query := `
		INSERT INTO permits (permit_name, status, validity_date, team_ids,
			coes_granted, workspace_id, creation_date, update_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := s.queryRowxContext(ctx, query,
		p.Name, int(p.Status), p.ValidityDate, pq.Array([]string(p.TeamIDs)),
		pq.Array([]string(p.CoesGranted)), p.WorkspaceID, p.CreationDate, p.UpdateDate,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create permit: %w", err)
	}
	return nil
}

// GetPermit loads one permit by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetPermit(ctx context.Context, id int64) (*entities.Permit, error) {
	query := `SELECT ` + permitColumns + ` FROM permits WHERE id = $1`

	var p entities.Permit
	if err := s.getContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePermit persists every mutable permit column.
func (s *Store) UpdatePermit(ctx context.Context, p *entities.Permit) error {
	query := `
		UPDATE permits
		SET permit_name = $2, status = $3, validity_date = $4, team_ids = $5,
		    coes_granted = $6, update_date = $7
		WHERE id = $1`

	_, err := s.execContext(ctx, query,
		p.ID, p.Name, int(p.Status), p.ValidityDate,
		pq.Array([]string(p.TeamIDs)), pq.Array([]string(p.CoesGranted)), p.UpdateDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update permit %d: %w", p.ID, err)
	}
	return nil
}

// DeletePermit removes the permit row.
func (s *Store) DeletePermit(ctx context.Context, id int64) error {
	if _, err := s.execContext(ctx, `DELETE FROM permits WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete permit %d: %w", id, err)
	}
	return nil
}

// ListPermitsByWorkspace returns all permits owned by a workspace.
func (s *Store) ListPermitsByWorkspace(ctx context.Context, workspaceID int64) ([]entities.Permit, error) {
	query := `SELECT ` + permitColumns + `
		FROM permits WHERE workspace_id = $1 ORDER BY id`

	var out []entities.Permit
	if err := s.selectContext(ctx, &out, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list permits for workspace %d: %w", workspaceID, err)
	}
	return out, nil
}

// ListPermitsByTeam returns all permits assigned to a team id.
func (s *Store) ListPermitsByTeam(ctx context.Context, teamID string) ([]entities.Permit, error) {
	query := `SELECT ` + permitColumns + `
		FROM permits WHERE $1 = ANY(team_ids) ORDER BY id`

	var out []entities.Permit
	if err := s.selectContext(ctx, &out, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to list permits for team %s: %w", teamID, err)
	}
	return out, nil
}

// ListPermitsExpiringBefore returns permits whose validity date falls inside
// (now, deadline].
func (s *Store) ListPermitsExpiringBefore(ctx context.Context, now, deadline time.Time, offset, limit int) ([]entities.Permit, error) {
	query := `SELECT ` + permitColumns + `
		FROM permits
		WHERE validity_date > $1 AND validity_date <= $2
		ORDER BY validity_date OFFSET $3 LIMIT $4`

	var out []entities.Permit
	if err := s.selectContext(ctx, &out, query, now, deadline, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list expiring permits: %w", err)
	}
	return out, nil
}
