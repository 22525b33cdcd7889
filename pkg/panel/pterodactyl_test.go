package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"orbitcloud/config"
	"orbitcloud/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *config.PterodactylConfig {
	return &config.PterodactylConfig{
		URL:    url,
		APIKey: "ptla_test",
		NodeID: 1,
		Eggs: map[string]config.EggConfig{
			"linux": {EggID: 1, NestID: 1, DockerImage: "ghcr.io/pterodactyl/yolks:java_17", Startup: "java -jar server.jar"},
		},
	}
}

func nanoLinux() *models.Product {
	return &models.Product{ID: "linux_1", Name: "Nano Linux", Price: 15000, RAM: 1024, Disk: 2048, CPU: 50, Category: "linux"}
}

func TestCreateUser(t *testing.T) {
	var gotAuth string
	var gotReq pteroUserReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/application/users", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"attributes":{"id":42,"username":"budi_123"}}`))
	}))
	defer srv.Close()

	c := NewPterodactylClient(testConfig(srv.URL))
	u, err := c.CreateUser(context.Background(), "budi_123", "budi@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, "Bearer ptla_test", gotAuth)
	assert.Equal(t, 42, u.ID)
	assert.Equal(t, "budi_123", u.Username)
	assert.NotEmpty(t, u.Password)
	assert.Equal(t, gotReq.Password, u.Password, "returned password must be the one sent to the panel")
	assert.Equal(t, "budi@gmail.com", gotReq.Email)
}

func TestCreateUser_UpstreamFailureReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"detail":"username already taken"}]}`))
	}))
	defer srv.Close()

	c := NewPterodactylClient(testConfig(srv.URL))
	u, err := c.CreateUser(context.Background(), "budi_123", "budi@gmail.com")
	assert.NoError(t, err, "upstream failure is signalled by nil, not error")
	assert.Nil(t, u)
}

func TestFindFreeAllocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/application/nodes/1/allocations", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"data":[
			{"attributes":{"id":1,"ip":"10.0.0.1","alias":"","port":25565,"assigned":true}},
			{"attributes":{"id":2,"ip":"10.0.0.1","alias":"play.example.com","port":25566,"assigned":false}}
		]}`))
	}))
	defer srv.Close()

	c := NewPterodactylClient(testConfig(srv.URL))
	a, err := c.FindFreeAllocation(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 2, a.ID)
	assert.Equal(t, "play.example.com", a.IP, "alias wins over raw ip when set")
	assert.Equal(t, 25566, a.Port)
}

func TestFindFreeAllocation_NoCapacity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"attributes":{"id":1,"ip":"10.0.0.1","port":25565,"assigned":true}}]}`))
	}))
	defer srv.Close()

	c := NewPterodactylClient(testConfig(srv.URL))
	a, err := c.FindFreeAllocation(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestCreateServer(t *testing.T) {
	var gotServer pteroServerReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/application/nodes/1/allocations":
			_, _ = w.Write([]byte(`{"data":[{"attributes":{"id":9,"ip":"203.0.113.10","port":25565,"assigned":false}}]}`))
		case "/api/application/servers":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotServer))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"attributes":{"uuid":"uuid-1234","identifier":"abcd1234"}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewPterodactylClient(testConfig(srv.URL))
	s, err := c.CreateServer(context.Background(), 42, nanoLinux(), "budi_123")
	require.NoError(t, err)

	assert.Equal(t, "uuid-1234", s.UUID)
	assert.Equal(t, "abcd1234", s.Identifier)
	assert.Equal(t, "203.0.113.10", s.AllocationIP)
	assert.Equal(t, 25565, s.AllocationPort)

	assert.Equal(t, "Nano Linux - budi_123", gotServer.Name)
	assert.Equal(t, 42, gotServer.User)
	assert.Equal(t, 1024, gotServer.Limits.Memory)
	assert.Equal(t, 2048, gotServer.Limits.Disk)
	assert.Equal(t, 50, gotServer.Limits.CPU)
	assert.Equal(t, 9, gotServer.Allocation.Default)
}

func TestCreateServer_NoAllocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewPterodactylClient(testConfig(srv.URL))
	_, err := c.CreateServer(context.Background(), 42, nanoLinux(), "budi_123")
	assert.ErrorContains(t, err, "no allocations")
}

func TestCreateServer_UnknownCategory(t *testing.T) {
	c := NewPterodactylClient(testConfig("http://unused"))
	p := nanoLinux()
	p.Category = "plan9"
	_, err := c.CreateServer(context.Background(), 42, p, "budi_123")
	assert.ErrorContains(t, err, "no egg configured")
}
