// Package status defines the closed integer-coded lifecycle enumerations
// shared by the governance services. The codes are persisted as-is, so the
// numeric values are part of the storage contract and must not be reordered.
package status

import "fmt"

// PermitStatus is the lifecycle state of a data-access permit.
type PermitStatus int

const (
	PermitPending   PermitStatus = 0
	PermitInitiated PermitStatus = 1
	PermitSubmitted PermitStatus = 2
	PermitRejected  PermitStatus = 3
	PermitGranted   PermitStatus = 4
	PermitExpired   PermitStatus = 5
)

func (s PermitStatus) String() string {
	switch s {
	case PermitPending:
		return "pending"
	case PermitInitiated:
		return "initiated"
	case PermitSubmitted:
		return "submitted"
	case PermitRejected:
		return "rejected"
	case PermitGranted:
		return "granted"
	case PermitExpired:
		return "expired"
	}
	return fmt.Sprintf("permit-status(%d)", int(s))
}

// DataAccessStatus is the workspace-level data-access phase state. Note the
// codes diverge from PermitStatus above Submitted; the cascade from permit to
// workspace copies the raw integer regardless, matching the stored data.
type DataAccessStatus int

const (
	DataAccessPending   DataAccessStatus = 0
	DataAccessInitiated DataAccessStatus = 1
	DataAccessSubmitted DataAccessStatus = 2
	DataAccessGranted   DataAccessStatus = 3
	DataAccessRejected  DataAccessStatus = 4
	DataAccessExpired   DataAccessStatus = 5
)

func (s DataAccessStatus) String() string {
	switch s {
	case DataAccessPending:
		return "pending"
	case DataAccessInitiated:
		return "initiated"
	case DataAccessSubmitted:
		return "submitted"
	case DataAccessGranted:
		return "granted"
	case DataAccessRejected:
		return "rejected"
	case DataAccessExpired:
		return "expired"
	}
	return fmt.Sprintf("data-access-status(%d)", int(s))
}

// CohortStatus is the execution state of a patient cohort query.
type CohortStatus int

const (
	CohortCreated  CohortStatus = 0
	CohortExecuted CohortStatus = 1
	CohortError    CohortStatus = 2
)

func (s CohortStatus) String() string {
	switch s {
	case CohortCreated:
		return "created"
	case CohortExecuted:
		return "executed"
	case CohortError:
		return "error"
	}
	return fmt.Sprintf("cohort-status(%d)", int(s))
}

// MetadataStatus is the workspace metadata-search phase state.
type MetadataStatus int

const (
	MetadataPending   MetadataStatus = 0
	MetadataInitiated MetadataStatus = 1
	MetadataCompleted MetadataStatus = 2
)

func (s MetadataStatus) String() string {
	switch s {
	case MetadataPending:
		return "pending"
	case MetadataInitiated:
		return "initiated"
	case MetadataCompleted:
		return "completed"
	}
	return fmt.Sprintf("metadata-status(%d)", int(s))
}
