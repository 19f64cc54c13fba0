package services

import (
	"fmt"
	"strings"

	"raven-dgc/internal/status"
)

// Workflow phase labels recorded on history rows.
const (
	phaseWorkspace        = "Workspace"
	phaseDataAccess       = "Data Access Request"
	phaseDataAccessChange = "Data Access Status Change"
	phaseDataAnalysis     = "Data Analysis"
	phaseMetadataSearch   = "Metadata Search"
)

// narrative is the canned (phase, action, description) triple selected for a
// destination status code. Unmapped codes fall back to a generic wording;
// transitions themselves are never rejected, so the fallback is routine, not
// an error path.
type narrative struct {
	phase       string
	action      string
	description string
}

// permitNarrative maps a permit destination status to its history wording.
func permitNarrative(s status.PermitStatus) narrative {
	switch s {
	case status.PermitSubmitted:
		return narrative{phaseDataAccess, "Submitted data access application",
			"The data permit application has been submitted"}
	case status.PermitInitiated:
		return narrative{phaseDataAccessChange, "Data access initiated",
			"The data permit application has been initiated"}
	case status.PermitGranted:
		return narrative{phaseDataAccessChange, "Data access approved",
			"The data permit application has been approved"}
	case status.PermitRejected:
		return narrative{phaseDataAccessChange, "Data access rejected",
			"The data permit application has been rejected"}
	case status.PermitExpired:
		return narrative{phaseDataAccessChange, "Data access expired",
			"The data permit application has expired"}
	}
	return narrative{phaseDataAccessChange,
		fmt.Sprintf("Permit status updated to %d", int(s)),
		fmt.Sprintf("The permit status has been changed to %d", int(s))}
}

// permitCreatedNarrative maps a permit's initial status to the wording of the
// creation history row.
func permitCreatedNarrative(s status.PermitStatus) narrative {
	if s == status.PermitSubmitted {
		return narrative{phaseDataAccess, "Submitted data access application",
			"The data permit application has been submitted"}
	}
	return narrative{phaseDataAccess,
		fmt.Sprintf("Permit created with status %d", int(s)),
		fmt.Sprintf("A new permit with status %d has been created", int(s))}
}

// dataAccessNarrative maps a workspace data-access destination status to its
// history wording.
func dataAccessNarrative(s status.DataAccessStatus) narrative {
	switch s {
	case status.DataAccessSubmitted:
		return narrative{phaseDataAccess, "Submitted data access",
			"The data access request has been submitted"}
	case status.DataAccessInitiated:
		return narrative{phaseDataAccessChange, "Data access initiated",
			"The data access request has been initiated"}
	case status.DataAccessGranted:
		return narrative{phaseDataAccessChange, "Data access approved",
			"The data access request has been approved"}
	case status.DataAccessRejected:
		return narrative{phaseDataAccessChange, "Data access rejected",
			"The data access request has been rejected"}
	case status.DataAccessExpired:
		return narrative{phaseDataAccessChange, "Data access expired",
			"The data access request has expired"}
	}
	return narrative{phaseDataAccessChange,
		fmt.Sprintf("Updated data access to %d", int(s)),
		fmt.Sprintf("Data access status has been changed to %d", int(s))}
}

// metadataNarrative maps a metadata-search destination status to its history
// wording.
func metadataNarrative(s status.MetadataStatus) narrative {
	switch s {
	case status.MetadataInitiated:
		return narrative{phaseMetadataSearch, "Metadata search initiated",
			"The metadata search has been initiated"}
	case status.MetadataCompleted:
		return narrative{phaseMetadataSearch, "Metadata search completed",
			"The metadata search has been completed"}
	}
	return narrative{phaseMetadataSearch,
		fmt.Sprintf("Metadata search status updated to %d", int(s)),
		fmt.Sprintf("The metadata search status has been changed to %d", int(s))}
}

// formatChangeSummary builds the single description for a diff-based update.
// A status-change narrative, when present, leads; remaining changed fields are
// appended as a suffix. With no status change the summary is built from the
// entity label and the changed-field list alone.
func formatChangeSummary(entityLabel string, statusDescription string, changed []string) string {
	switch {
	case statusDescription != "" && len(changed) > 0:
		return fmt.Sprintf("%s. Also changed: %s", statusDescription, strings.Join(changed, ", "))
	case statusDescription != "":
		return statusDescription
	default:
		return fmt.Sprintf("%s has been updated. Changes: %s", entityLabel, strings.Join(changed, ", "))
	}
}

// sanitizeTeamIDs strips blank entries and the literal placeholder "string"
// that API clients are known to send from generated examples.
func sanitizeTeamIDs(teamIDs []string) []string {
	out := make([]string, 0, len(teamIDs))
	for _, id := range teamIDs {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" || strings.EqualFold(trimmed, "string") {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
