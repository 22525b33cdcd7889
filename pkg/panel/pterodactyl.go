package panel

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"time"

	"orbitcloud/config"
	"orbitcloud/internal/models"
)

// PterodactylClient drives a Pterodactyl panel through its application API
// (bearer token auth, /api/application namespace).
type PterodactylClient struct {
	cfg    *config.PterodactylConfig
	client *http.Client
}

func NewPterodactylClient(cfg *config.PterodactylConfig) *PterodactylClient {
	return &PterodactylClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PterodactylClient) PanelURL() string { return p.cfg.URL }

func (p *PterodactylClient) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.URL+"/api/application"+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return p.client.Do(req)
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generatePassword returns a random credential for a new panel account.
func generatePassword() string {
	buf := make([]byte, 10)
	for i := range buf {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(passwordChars))))
		buf[i] = passwordChars[n.Int64()]
	}
	// Guarantee the panel's complexity rules regardless of the random part.
	return string(buf) + "Aa1!"
}

type pteroUserReq struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type pteroUserResp struct {
	Attributes struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	} `json:"attributes"`
}

// CreateUser returns (nil, nil) on any upstream failure. A duplicate username
// or email lands here too; the caller treats it as retryable.
func (p *PterodactylClient) CreateUser(ctx context.Context, username, email string) (*PanelUser, error) {
	password := generatePassword()
	if len(username) > 60 {
		username = username[:60]
	}
	payload := pteroUserReq{
		Email:     email,
		Username:  username,
		FirstName: username,
		LastName:  "User",
		Password:  password,
	}
	resp, err := p.do(ctx, http.MethodPost, "/users", payload)
	if err != nil {
		log.Printf("[PTERO] create user error: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("[PTERO] create user status=%d body=%s", resp.StatusCode, string(raw))
		return nil, nil
	}
	var out pteroUserResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("[PTERO] create user decode: %v", err)
		return nil, nil
	}
	return &PanelUser{ID: out.Attributes.ID, Username: out.Attributes.Username, Password: password}, nil
}

type pteroAllocationsResp struct {
	Data []struct {
		Attributes struct {
			ID       int    `json:"id"`
			IP       string `json:"ip"`
			Alias    string `json:"alias"`
			Port     int    `json:"port"`
			Assigned bool   `json:"assigned"`
		} `json:"attributes"`
	} `json:"data"`
}

func (p *PterodactylClient) FindFreeAllocation(ctx context.Context, nodeID int) (*Allocation, error) {
	resp, err := p.do(ctx, http.MethodGet, fmt.Sprintf("/nodes/%d/allocations?per_page=100", nodeID), nil)
	if err != nil {
		return nil, fmt.Errorf("ptero allocations: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ptero allocations: status %d", resp.StatusCode)
	}
	var out pteroAllocationsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ptero allocations: decode: %w", err)
	}
	for _, a := range out.Data {
		if a.Attributes.Assigned {
			continue
		}
		ip := a.Attributes.Alias
		if ip == "" {
			ip = a.Attributes.IP
		}
		return &Allocation{ID: a.Attributes.ID, IP: ip, Port: a.Attributes.Port}, nil
	}
	return nil, nil
}

type pteroServerReq struct {
	Name          string            `json:"name"`
	User          int               `json:"user"`
	Egg           int               `json:"egg"`
	DockerImage   string            `json:"docker_image"`
	Startup       string            `json:"startup"`
	Environment   map[string]string `json:"environment"`
	Limits        pteroLimits       `json:"limits"`
	FeatureLimits pteroFeatures     `json:"feature_limits"`
	Allocation    pteroAllocation   `json:"allocation"`
	Nest          int               `json:"nest"`
	Node          int               `json:"node"`
}

type pteroLimits struct {
	Memory int `json:"memory"`
	Swap   int `json:"swap"`
	Disk   int `json:"disk"`
	IO     int `json:"io"`
	CPU    int `json:"cpu"`
}

type pteroFeatures struct {
	Databases   int `json:"databases"`
	Allocations int `json:"allocations"`
	Backups     int `json:"backups"`
}

type pteroAllocation struct {
	Default int `json:"default"`
}

type pteroServerResp struct {
	Attributes struct {
		UUID       string `json:"uuid"`
		Identifier string `json:"identifier"`
	} `json:"attributes"`
}

func (p *PterodactylClient) CreateServer(ctx context.Context, userID int, product *models.Product, usernameReq string) (*PanelServer, error) {
	egg, ok := p.cfg.Eggs[product.Category]
	if !ok {
		return nil, fmt.Errorf("no egg configured for category %q", product.Category)
	}

	allocation, err := p.FindFreeAllocation(ctx, p.cfg.NodeID)
	if err != nil {
		return nil, err
	}
	if allocation == nil {
		return nil, fmt.Errorf("no allocations available on node %d", p.cfg.NodeID)
	}

	payload := pteroServerReq{
		Name:        fmt.Sprintf("%s - %s", product.Name, usernameReq),
		User:        userID,
		Egg:         egg.EggID,
		DockerImage: egg.DockerImage,
		Startup:     egg.Startup,
		Environment: map[string]string{
			"MAX_PLAYERS": "50",
			"CMD_RUN":     "npm start",
		},
		Limits: pteroLimits{
			Memory: product.RAM,
			Swap:   0,
			Disk:   product.Disk,
			IO:     500,
			CPU:    product.CPU,
		},
		FeatureLimits: pteroFeatures{Databases: 1, Allocations: 0, Backups: 0},
		Allocation:    pteroAllocation{Default: allocation.ID},
		Nest:          egg.NestID,
		Node:          p.cfg.NodeID,
	}

	resp, err := p.do(ctx, http.MethodPost, "/servers", payload)
	if err != nil {
		return nil, fmt.Errorf("ptero create server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("[PTERO] create server status=%d body=%s", resp.StatusCode, string(raw))
		return nil, fmt.Errorf("failed to deploy server on panel")
	}
	var out pteroServerResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ptero create server: decode: %w", err)
	}
	return &PanelServer{
		UUID:           out.Attributes.UUID,
		Identifier:     out.Attributes.Identifier,
		AllocationIP:   allocation.IP,
		AllocationPort: allocation.Port,
	}, nil
}
