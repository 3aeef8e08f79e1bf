package testutil

import "time"

// Fixed identifiers for deterministic testing
const (
	TestLenderID   = "00000000-0000-0000-0000-000000000001"
	TestBorrowerID = "00000000-0000-0000-0000-000000000002"
	TestLoanID     = "00000000-0000-0000-0000-000000000020"
	TestOfferID    = "00000000-0000-0000-0000-000000000030"
)

// TestEpoch is a fixed reference time for schedule and accrual tests.
var TestEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
