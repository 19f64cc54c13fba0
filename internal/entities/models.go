package entities

import (
	"time"

	"github.com/lib/pq"

	"raven-dgc/internal/status"
)

// ============================================================================
// CORE ENTITY STRUCTURES
// ============================================================================

// Workspace is a research project. It owns permits, analyses, cohorts,
// metadata searches and the append-only history ledger. The four phase
// columns are independent small state machines.
type Workspace struct {
	ID                   int64                   `json:"id" db:"id"`
	Name                 string                  `json:"name" db:"name"`
	Description          string                  `json:"description" db:"description"`
	CreatorID            int64                   `json:"creator_id" db:"creator_id"`
	TeamIDs              pq.StringArray          `json:"team_ids" db:"team_ids"`
	MetadataSearch       status.MetadataStatus   `json:"metadata_search" db:"metadata_search"`
	DataAccess           status.DataAccessStatus `json:"data_access" db:"data_access"`
	DataAnalysis         int                     `json:"data_analysis" db:"data_analysis"`
	ResultReport         int                     `json:"result_report" db:"result_report"`
	CreationDate         time.Time               `json:"creation_date" db:"creation_date"`
	LastModificationDate *time.Time              `json:"last_modification_date" db:"last_modification_date"`
	VRStudyID            *string                 `json:"vr_study_id" db:"vr_study_id"`
}

// Permit is a data-access permit. Exactly one workspace owns it; the
// workspace's data_access column mirrors the permit status after every
// lifecycle transition.
type Permit struct {
	ID           int64               `json:"id" db:"id"`
	Name         string              `json:"permit_name" db:"permit_name"`
	Status       status.PermitStatus `json:"status" db:"status"`
	ValidityDate *time.Time          `json:"validity_date" db:"validity_date"`
	TeamIDs      pq.StringArray      `json:"team_ids" db:"team_ids"`
	CoesGranted  pq.StringArray      `json:"coes_granted" db:"coes_granted"`
	WorkspaceID  int64               `json:"workspace_id" db:"workspace_id"`
	CreationDate time.Time           `json:"creation_date" db:"creation_date"`
	UpdateDate   time.Time           `json:"update_date" db:"update_date"`
}

// Analysis groups cohorts under a workspace.
type Analysis struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"analysis_name" db:"analysis_name"`
	Description  string     `json:"analysis_description" db:"analysis_description"`
	UserID       int64      `json:"user_id" db:"user_id"`
	WorkspaceID  int64      `json:"workspace_id" db:"workspace_id"`
	CreationDate time.Time  `json:"creation_date" db:"creation_date"`
	UpdateDate   time.Time  `json:"update_date" db:"update_date"`
	ExpiringDate *time.Time `json:"expiring_date" db:"expiring_date"`
}

// Cohort is a patient cohort query belonging to a workspace and optionally an
// analysis.
type Cohort struct {
	ID           int64               `json:"id" db:"id"`
	Name         string              `json:"cohort_name" db:"cohort_name"`
	Description  string              `json:"cohort_description" db:"cohort_description"`
	Query        *string             `json:"cohort_query" db:"cohort_query"`
	Status       status.CohortStatus `json:"status" db:"status"`
	UserID       int64               `json:"user_id" db:"user_id"`
	AnalysisID   *int64              `json:"analysis_id" db:"analysis_id"`
	WorkspaceID  int64               `json:"workspace_id" db:"workspace_id"`
	CreationDate time.Time           `json:"creation_date" db:"creation_date"`
	UpdateDate   time.Time           `json:"update_date" db:"update_date"`
}

// CohortResult is one record-identifier match for a cohort. The data_id is an
// ordered list of strings; uniqueness holds on the (cohort_id, data_id) pair,
// never on data_id alone.
type CohortResult struct {
	ID       int64          `json:"id" db:"id"`
	CohortID int64          `json:"cohort_id" db:"cohort_id"`
	DataID   pq.StringArray `json:"data_id" db:"data_id"`
}

// WorkspaceHistory is one immutable audit ledger row. Rows are only ever
// appended, inside the same transaction as the mutation they document.
type WorkspaceHistory struct {
	ID          int64     `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"date"`
	Phase       string    `json:"phase" db:"phase"`
	Action      string    `json:"action" db:"action"`
	Description string    `json:"description" db:"description"`
	WorkspaceID int64     `json:"workspace_id" db:"workspace_id"`
	CreatorID   int64     `json:"creator_id" db:"creator_id"`
}

// MetadataSearch is a workspace-scoped metadata search record.
type MetadataSearch struct {
	ID          int64                 `json:"id" db:"id"`
	WorkspaceID int64                 `json:"workspace_id" db:"workspace_id"`
	Status      status.MetadataStatus `json:"status" db:"status"`
	Shared      *string               `json:"shared" db:"shared"`
	CancerType  *string               `json:"type_cancer" db:"type_cancer"`
	CreatedDate time.Time             `json:"created_date" db:"created_date"`
	UpdateDate  *time.Time            `json:"update_date" db:"update_date"`
}

// ============================================================================
// COMMAND / PATCH TYPES
// ============================================================================

// WorkspaceCreate carries the caller-supplied fields for a new workspace.
// The creator is always the acting user, never part of the payload.
type WorkspaceCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TeamIDs     []string `json:"team_ids"`
	VRStudyID   *string  `json:"vr_study_id"`
}

// PermitCreate carries the caller-supplied fields for a new permit.
type PermitCreate struct {
	WorkspaceID  int64               `json:"workspace_id"`
	Name         string              `json:"permit_name"`
	Status       status.PermitStatus `json:"status"`
	TeamIDs      []string            `json:"team_ids"`
	ValidityDate *time.Time          `json:"validity_date"`
}

// PermitPatch is a field-level permit update. Nil means "leave unchanged".
type PermitPatch struct {
	Status       *status.PermitStatus `json:"status"`
	Name         *string              `json:"permit_name"`
	ValidityDate *time.Time           `json:"validity_date"`
	TeamIDs      []string             `json:"team_ids"`
	CoesGranted  []string             `json:"coes_granted"`
}

// AnalysisCreate carries the caller-supplied fields for a new analysis.
type AnalysisCreate struct {
	WorkspaceID  int64      `json:"workspace_id"`
	Name         string     `json:"analysis_name"`
	Description  string     `json:"analysis_description"`
	ExpiringDate *time.Time `json:"expiring_date"`
}

// AnalysisPatch is a field-level analysis update. Nil means "leave unchanged".
type AnalysisPatch struct {
	Name         *string    `json:"analysis_name"`
	Description  *string    `json:"analysis_description"`
	ExpiringDate *time.Time `json:"expiring_date"`
}

// CohortCreate carries the caller-supplied fields for a new cohort.
type CohortCreate struct {
	WorkspaceID int64   `json:"workspace_id"`
	AnalysisID  *int64  `json:"analysis_id"`
	Name        string  `json:"cohort_name"`
	Description string  `json:"cohort_description"`
	Query       *string `json:"cohort_query"`
}

// CohortPatch is a field-level cohort update. Nil means "leave unchanged".
type CohortPatch struct {
	Name        *string              `json:"cohort_name"`
	Description *string              `json:"cohort_description"`
	Query       *string              `json:"cohort_query"`
	Status      *status.CohortStatus `json:"status"`
	AnalysisID  *int64               `json:"analysis_id"`
}

// MetadataSearchCreate carries the caller-supplied fields for a new metadata
// search record.
type MetadataSearchCreate struct {
	WorkspaceID int64   `json:"workspace_id"`
	Shared      *string `json:"shared"`
	CancerType  *string `json:"type_cancer"`
}
