package store

import (
	"context"
	"fmt"
)

// schemaDDL creates the governance tables. Analyses deliberately carry a
// plain (non-cascading) foreign key to workspaces: the workspace lifecycle
// service removes analyses children-first before the workspace row, and the
// schema must not do that removal behind its back. Leaf tables (permits,
// cohorts, cohort_results, histories, metadata searches) cascade so no
// orphan rows can survive a parent delete.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS workspaces (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    creator_id BIGINT NOT NULL REFERENCES users(id),
    team_ids TEXT[] NOT NULL DEFAULT '{}',
    metadata_search INTEGER NOT NULL DEFAULT 0,
    data_access INTEGER NOT NULL DEFAULT 0,
    data_analysis INTEGER NOT NULL DEFAULT 0,
    result_report INTEGER NOT NULL DEFAULT 0,
    creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_modification_date TIMESTAMPTZ,
    vr_study_id TEXT
);
CREATE INDEX IF NOT EXISTS ix_workspaces_creator_id ON workspaces(creator_id);

CREATE TABLE IF NOT EXISTS permits (
    id BIGSERIAL PRIMARY KEY,
    permit_name TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL DEFAULT 0,
    validity_date TIMESTAMPTZ,
    team_ids TEXT[] NOT NULL DEFAULT '{}',
    coes_granted TEXT[] NOT NULL DEFAULT '{}',
    workspace_id BIGINT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
    creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_date TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_permits_workspace_id ON permits(workspace_id);

CREATE TABLE IF NOT EXISTS analyses (
    id BIGSERIAL PRIMARY KEY,
    analysis_name TEXT NOT NULL,
    analysis_description TEXT NOT NULL DEFAULT '',
    user_id BIGINT NOT NULL REFERENCES users(id),
    workspace_id BIGINT NOT NULL REFERENCES workspaces(id),
    creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    expiring_date TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS ix_analyses_workspace_id ON analyses(workspace_id);
CREATE INDEX IF NOT EXISTS ix_analyses_user_id ON analyses(user_id);

CREATE TABLE IF NOT EXISTS cohorts (
    id BIGSERIAL PRIMARY KEY,
    cohort_name TEXT NOT NULL,
    cohort_description TEXT NOT NULL DEFAULT '',
    cohort_query TEXT,
    status INTEGER NOT NULL DEFAULT 0,
    user_id BIGINT NOT NULL REFERENCES users(id),
    analysis_id BIGINT REFERENCES analyses(id) ON DELETE CASCADE,
    workspace_id BIGINT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
    creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_date TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_cohorts_workspace_id ON cohorts(workspace_id);
CREATE INDEX IF NOT EXISTS ix_cohorts_analysis_id ON cohorts(analysis_id);

CREATE TABLE IF NOT EXISTS cohort_results (
    id BIGSERIAL PRIMARY KEY,
    data_id TEXT[] NOT NULL,
    cohort_id BIGINT NOT NULL REFERENCES cohorts(id) ON DELETE CASCADE,
    UNIQUE (cohort_id, data_id)
);

CREATE TABLE IF NOT EXISTS workspace_histories (
    id BIGSERIAL PRIMARY KEY,
    date TIMESTAMPTZ NOT NULL DEFAULT now(),
    phase TEXT NOT NULL,
    action TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    workspace_id BIGINT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
    creator_id BIGINT NOT NULL REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS ix_workspace_histories_workspace_id ON workspace_histories(workspace_id);

CREATE TABLE IF NOT EXISTS metadata_searches (
    id BIGSERIAL PRIMARY KEY,
    workspace_id BIGINT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
    status INTEGER NOT NULL DEFAULT 0,
    shared TEXT,
    type_cancer TEXT,
    created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_date TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS ix_metadata_searches_workspace_id ON metadata_searches(workspace_id);
`

// InitDB creates all tables and indexes if they do not exist.
func (s *Store) InitDB(ctx context.Context) error {
	if _, err := s.execContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
