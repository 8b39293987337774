package domain

// Verification is the public answer to "is this credential anchored on the ledger".
type Verification struct {
	Token       string
	Fingerprint string
	// Valid is true when the ledger confirms the record and, if a fingerprint
	// was presented, it matches the anchored one.
	Valid              bool
	LedgerState        string
	ConfirmationID     string
	FingerprintChecked bool
	FingerprintMatches bool
	// Entry is the local academic ledger entry, nil until the approval is recorded.
	Entry *AcademicLedgerEntry
}
