package models

import "time"

type ReceiptKind string

const (
	ReceiptClaim    ReceiptKind = "claim"
	ReceiptDaily    ReceiptKind = "daily"
	ReceiptUpgrade  ReceiptKind = "upgrade"
	ReceiptAdView   ReceiptKind = "ad_view"
	ReceiptReferral ReceiptKind = "referral"
	ReceiptGrant    ReceiptKind = "grant"
)

// Receipt records one balance mutation. Amount is signed: upgrade spends are
// negative. Ref carries the counterparty account for referral payouts.
type Receipt struct {
	ID        string      `json:"id"`
	AccountID string      `json:"account_id"`
	Kind      ReceiptKind `json:"kind"`
	Amount    Mills       `json:"amount"`
	Ref       *string     `json:"ref,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
