package model

// PayoutStatus is the normalized outcome of one payout API call.
type PayoutStatus int

const (
	// PayoutSuccess means the service accepted the transfer.
	PayoutSuccess PayoutStatus = iota
	// PayoutRejected means the service declined the transfer (bad email,
	// API limit, ...). The user may retry immediately.
	PayoutRejected
	// PayoutTimeout means the request exceeded the client deadline.
	PayoutTimeout
	// PayoutTransportError covers any other network or parse failure.
	PayoutTransportError
)

// PayoutResult is the normalized response from the payout service.
// Exactly one of RefID (success) or Reason (rejected) is meaningful.
type PayoutResult struct {
	Status PayoutStatus
	RefID  string
	Reason string
}
