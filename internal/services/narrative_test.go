package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"raven-dgc/internal/status"
)

func TestPermitNarrative(t *testing.T) {
	tests := []struct {
		name   string
		status status.PermitStatus
		phase  string
		action string
	}{
		{"submitted", status.PermitSubmitted, phaseDataAccess, "Submitted data access application"},
		{"initiated", status.PermitInitiated, phaseDataAccessChange, "Data access initiated"},
		{"granted", status.PermitGranted, phaseDataAccessChange, "Data access approved"},
		{"rejected", status.PermitRejected, phaseDataAccessChange, "Data access rejected"},
		{"expired", status.PermitExpired, phaseDataAccessChange, "Data access expired"},
		{"unmapped", status.PermitStatus(42), phaseDataAccessChange, "Permit status updated to 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := permitNarrative(tt.status)
			assert.Equal(t, tt.phase, n.phase)
			assert.Equal(t, tt.action, n.action)
			assert.NotEmpty(t, n.description)
		})
	}
}

func TestPermitCreatedNarrative(t *testing.T) {
	n := permitCreatedNarrative(status.PermitSubmitted)
	assert.Equal(t, "Submitted data access application", n.action)

	n = permitCreatedNarrative(status.PermitPending)
	assert.Equal(t, "Permit created with status 0", n.action)
	assert.Equal(t, "A new permit with status 0 has been created", n.description)
}

// The permit and data-access scales agree up to Submitted and diverge above
// it; both Granted codes must still land on the "approved" wording.
func TestDataAccessNarrative_DivergentGrantedCode(t *testing.T) {
	n := dataAccessNarrative(status.DataAccessGranted)
	assert.Equal(t, "Data access approved", n.action)

	p := permitNarrative(status.PermitGranted)
	assert.Equal(t, "Data access approved", p.action)

	assert.NotEqual(t, int(status.PermitGranted), int(status.DataAccessGranted))
}

func TestMetadataNarrative(t *testing.T) {
	assert.Equal(t, "Metadata search completed", metadataNarrative(status.MetadataCompleted).action)
	assert.Equal(t, "Metadata search status updated to 9", metadataNarrative(status.MetadataStatus(9)).action)
}

func TestFormatChangeSummary(t *testing.T) {
	assert.Equal(t,
		"The data permit application has been approved. Also changed: name, validity date",
		formatChangeSummary("Permit 3", "The data permit application has been approved",
			[]string{"name", "validity date"}))

	assert.Equal(t,
		"The data permit application has been approved",
		formatChangeSummary("Permit 3", "The data permit application has been approved", nil))

	assert.Equal(t,
		"Permit 3 has been updated. Changes: team assignment",
		formatChangeSummary("Permit 3", "", []string{"team assignment"}))
}

func TestSanitizeTeamIDs(t *testing.T) {
	got := sanitizeTeamIDs([]string{"team-a", "", "  ", "string", "STRING", " team-b "})
	assert.Equal(t, []string{"team-a", "team-b"}, got)

	assert.Empty(t, sanitizeTeamIDs(nil))
}
