package shipping

import (
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// QuoteState identifies where a shipping quote is in its lifecycle
type QuoteState string

const (
	QuoteStateUnresolved QuoteState = "UNRESOLVED"
	QuoteStateResolved   QuoteState = "RESOLVED"
	QuoteStateFailed     QuoteState = "FAILED"
)

// Quote is a resolved or errored shipping-fee result tied to one address
// selection. It is never persisted; a new address selection always recomputes
// it. No default fee is ever substituted at this layer - an estimated fee
// silently charged is a correctness hazard, not a UI nuisance.
type Quote struct {
	State        QuoteState        `json:"state"`
	ProvinceName string            `json:"provinceName,omitempty"`
	CommuneName  string            `json:"communeName,omitempty"`
	Fee          valueobject.Money `json:"fee,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// UnresolvedQuote returns the initial quote state
func UnresolvedQuote() Quote {
	return Quote{State: QuoteStateUnresolved}
}

// ResolvedQuote returns a quote carrying the resolved fee
func ResolvedQuote(provinceName, communeName string, fee valueobject.Money) Quote {
	return Quote{
		State:        QuoteStateResolved,
		ProvinceName: provinceName,
		CommuneName:  communeName,
		Fee:          fee,
	}
}

// FailedQuote returns a quote in error state with a user-displayable message
func FailedQuote(message string) Quote {
	return Quote{State: QuoteStateFailed, ErrorMessage: message}
}

// HasFee reports whether the fee is resolved and usable for order assembly
func (q Quote) HasFee() bool {
	return q.State == QuoteStateResolved
}

// IsFailed reports whether the quote ended in an error state
func (q Quote) IsFailed() bool {
	return q.State == QuoteStateFailed
}
