package status

import "testing"

func TestPermitStatusCodes(t *testing.T) {
	// Persisted integer codes; anything shifting here corrupts stored rows.
	cases := []struct {
		status PermitStatus
		code   int
		name   string
	}{
		{PermitPending, 0, "pending"},
		{PermitInitiated, 1, "initiated"},
		{PermitSubmitted, 2, "submitted"},
		{PermitRejected, 3, "rejected"},
		{PermitGranted, 4, "granted"},
		{PermitExpired, 5, "expired"},
	}
	for _, c := range cases {
		if int(c.status) != c.code {
			t.Errorf("%s: expected code %d, got %d", c.name, c.code, int(c.status))
		}
		if c.status.String() != c.name {
			t.Errorf("code %d: expected name %q, got %q", c.code, c.name, c.status.String())
		}
	}
}

func TestDataAccessStatusCodes(t *testing.T) {
	if int(DataAccessGranted) != 3 || int(DataAccessRejected) != 4 {
		t.Fatalf("data-access granted/rejected codes moved: %d/%d",
			int(DataAccessGranted), int(DataAccessRejected))
	}
	if int(PermitGranted) == int(DataAccessGranted) {
		t.Fatal("permit and data-access granted codes are expected to differ")
	}
}

func TestUnknownCodesFormat(t *testing.T) {
	if got := PermitStatus(42).String(); got != "permit-status(42)" {
		t.Errorf("unexpected format for unknown permit status: %q", got)
	}
	if got := CohortStatus(9).String(); got != "cohort-status(9)" {
		t.Errorf("unexpected format for unknown cohort status: %q", got)
	}
	if got := MetadataStatus(7).String(); got != "metadata-status(7)" {
		t.Errorf("unexpected format for unknown metadata status: %q", got)
	}
}
