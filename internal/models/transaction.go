package models

import (
	"time"

	"orbitcloud/internal/domain"
)

// Transaction is one order through its whole life: QRIS issued, payment
// settled (or the order cancelled/expired), server deployed. Never deleted.
type Transaction struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	// Amount is what the gateway actually bills; it can differ from
	// OriginalPrice when the gateway adds a uniqueness suffix.
	Amount int `json:"amount"`
	// OriginalPrice is the product's nominal price. Gateway status lookups
	// are keyed by (order_id, original_price).
	OriginalPrice int           `json:"original_price"`
	QRString      string        `json:"qr_string"`
	PaketType     string        `json:"paket_type"` // product id snapshot
	PaketName     string        `json:"paket_name"`
	UsernameReq   string        `json:"username_req"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	ServerCreated bool          `json:"server_created"`
	ServerDetail  *ServerDetail `json:"server_detail,omitempty"`
}

// ServerDetail holds the provisioned instance credentials. Present only once
// ServerCreated is true.
type ServerDetail struct {
	UUID       string `json:"uuid"`
	Identifier string `json:"identifier"`
	PanelURL   string `json:"panel_url"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	IP         string `json:"ip"`
	Port       int    `json:"port"`
}

// AgeSeconds returns the order age at time now.
func (t *Transaction) AgeSeconds(now time.Time) float64 {
	return now.Sub(t.CreatedAt).Seconds()
}

// IsTerminal reports whether the status can never change again.
func (t *Transaction) IsTerminal() bool {
	return t.Status == domain.StatusCancelled || t.Status == domain.StatusExpired
}
