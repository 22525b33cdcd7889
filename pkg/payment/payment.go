package payment

import "context"

// QRISPayment is the artifact a buyer scans to pay.
type QRISPayment struct {
	// QRString is the raw QRIS payload rendered as a QR code client-side.
	QRString string
	// TotalAmount is what the gateway actually bills. May carry a uniqueness
	// suffix on top of the requested amount.
	TotalAmount int
	ExpiredAt   string
}

// Gateway abstracts the payment provider so the order engine can be tested
// without network access.
type Gateway interface {
	// CreateQRIS registers a transaction and returns the scannable payment.
	// Any transport or payload failure is an error; the caller must not
	// persist an order whose payment could not be created.
	CreateQRIS(ctx context.Context, orderID string, amount int) (*QRISPayment, error)

	// CheckStatus returns the gateway-side status token for the transaction
	// keyed by (orderID, amount). It never fails: on any transport or payload
	// problem it degrades to "pending", because it runs on every status poll.
	CheckStatus(ctx context.Context, orderID string, amount int) string

	// Simulate marks the transaction as paid on the gateway side. Only
	// meaningful when the gateway project runs in sandbox mode.
	Simulate(ctx context.Context, orderID string, amount int) error
}
