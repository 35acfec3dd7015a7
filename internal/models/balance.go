package models

// ledger operations exposed by the external ledger service
const (
	LedgerOpAdd      = "add"
	LedgerOpSubtract = "subtract"
)

// Balance is the ledger-visible wallet state of one account. The ledger
// service owns the value; it is never read-modified-written locally.
type Balance struct {
	AccountID string
	Current   int64
}
