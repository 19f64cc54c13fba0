package services

import (
	"time"

	"raven-dgc/internal/store"
)

// Services bundles the lifecycle services over one shared store. All services
// are stateless; construct once at process start and inject into handlers.
type Services struct {
	Workspace      *WorkspaceService
	Permit         *PermitService
	Analysis       *AnalysisService
	Cohort         *CohortService
	CohortResult   *CohortResultService
	MetadataSearch *MetadataSearchService
	History        *HistoryService
}

// New wires every lifecycle service to the given store.
func New(st *store.Store) *Services {
	return &Services{
		Workspace:      &WorkspaceService{store: st},
		Permit:         &PermitService{store: st},
		Analysis:       &AnalysisService{store: st},
		Cohort:         &CohortService{store: st},
		CohortResult:   &CohortResultService{store: st},
		MetadataSearch: &MetadataSearchService{store: st},
		History:        &HistoryService{store: st},
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func timePtrsEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
