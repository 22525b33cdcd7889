package panel

import (
	"context"

	"orbitcloud/internal/models"
)

// PanelUser is a hosting-panel account plus the generated password. The panel
// never returns the password back, so it is only known at creation time.
type PanelUser struct {
	ID       int
	Username string
	Password string
}

// Allocation is a free IP:port slot on a node.
type Allocation struct {
	ID   int
	IP   string
	Port int
}

// PanelServer is a provisioned instance with its connection address.
type PanelServer struct {
	UUID           string
	Identifier     string
	AllocationIP   string
	AllocationPort int
}

// Client abstracts the provisioning panel's application API.
type Client interface {
	// CreateUser creates a panel account with a generated password.
	// Returns (nil, nil) on any upstream failure: "could not create, retry
	// on the next poll" rather than a hard error.
	CreateUser(ctx context.Context, username, email string) (*PanelUser, error)

	// FindFreeAllocation scans the node's allocation pool for an unassigned
	// slot. Nil means the node has no capacity.
	FindFreeAllocation(ctx context.Context, nodeID int) (*Allocation, error)

	// CreateServer provisions an instance sized from the product's resource
	// quantities. Fails hard; the caller retries on a later poll.
	CreateServer(ctx context.Context, userID int, product *models.Product, usernameReq string) (*PanelServer, error)

	// PanelURL is the base URL users log into.
	PanelURL() string
}
