package testutil

import "github.com/google/uuid"

// Fixed UUIDs for deterministic testing.
var (
	TestOrganizationID = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestBranchID       = uuid.MustParse("00000000-0000-0000-0000-000000000011")
	TestClientID       = uuid.MustParse("00000000-0000-0000-0000-000000000020")
	TestLoanID         = uuid.MustParse("00000000-0000-0000-0000-000000000030")
	TestProductID      = uuid.MustParse("00000000-0000-0000-0000-000000000031")
	TestChargeID       = uuid.MustParse("00000000-0000-0000-0000-000000000040")
)
