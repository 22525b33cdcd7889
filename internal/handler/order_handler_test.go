package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orbitcloud/internal/catalog"
	"orbitcloud/internal/models"
	"orbitcloud/internal/repository"
	"orbitcloud/internal/service"
	"orbitcloud/internal/store"
	"orbitcloud/pkg/panel"
	"orbitcloud/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	status string
}

func (g *stubGateway) CreateQRIS(ctx context.Context, orderID string, amount int) (*payment.QRISPayment, error) {
	return &payment.QRISPayment{QRString: "QR123", TotalAmount: amount}, nil
}

func (g *stubGateway) CheckStatus(ctx context.Context, orderID string, amount int) string {
	if g.status == "" {
		return "pending"
	}
	return g.status
}

func (g *stubGateway) Simulate(ctx context.Context, orderID string, amount int) error { return nil }

type stubPanel struct{}

func (p *stubPanel) CreateUser(ctx context.Context, username, email string) (*panel.PanelUser, error) {
	return &panel.PanelUser{ID: 1, Username: username, Password: "pw"}, nil
}

func (p *stubPanel) FindFreeAllocation(ctx context.Context, nodeID int) (*panel.Allocation, error) {
	return &panel.Allocation{ID: 1, IP: "203.0.113.10", Port: 25565}, nil
}

func (p *stubPanel) CreateServer(ctx context.Context, userID int, product *models.Product, usernameReq string) (*panel.PanelServer, error) {
	return &panel.PanelServer{UUID: "u", Identifier: "i", AllocationIP: "203.0.113.10", AllocationPort: 25565}, nil
}

func (p *stubPanel) PanelURL() string { return "https://panel.example.com" }

type responseEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, sandbox bool) (*gin.Engine, *repository.TransactionRepository, *stubGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	users := repository.NewUserRepository(st)
	trxs := repository.NewTransactionRepository(st)
	gw := &stubGateway{}
	orderSvc := service.NewOrderService(users, trxs, catalog.NewStaticRepository(catalog.Default()), gw, &stubPanel{}, sandbox)

	require.NoError(t, users.Create(&models.User{
		ID: "user_1", Name: "Budi", Email: "budi@gmail.com", CreatedAt: time.Now(),
	}))

	h := NewOrderHandler(orderSvc)
	r := gin.New()
	r.POST("/api/order", h.Create)
	r.POST("/api/order/:orderId/cancel", h.Cancel)
	r.POST("/api/order/:orderId/simulate", h.Simulate)
	r.GET("/api/order/:orderId/status", h.Status)
	r.GET("/api/history/:userId", h.History)
	return r, trxs, gw
}

func doJSON(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, responseEnvelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env responseEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestCreateOrderEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t, true)

	w, env := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var trx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &trx))
	assert.Equal(t, "pending", trx.Status)
	assert.Equal(t, "QR123", trx.QRString)
}

func TestCreateOrderEndpoint_MissingFields(t *testing.T) {
	r, _, _ := newTestRouter(t, true)
	w, env := doJSON(r, http.MethodPost, "/api/order", `{"userId":"user_1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestCreateOrderEndpoint_LockConflict(t *testing.T) {
	r, _, _ := newTestRouter(t, true)
	w, _ := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"node_1","usernameReq":"budi_123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	// The blocking transaction rides along so the client can resume it.
	var existing models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &existing))
	assert.NotEmpty(t, existing.OrderID)
}

func TestCancelEndpoint_Throttled(t *testing.T) {
	r, _, _ := newTestRouter(t, true)
	w, env := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var trx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &trx))

	w, env = doJSON(r, http.MethodPost, "/api/order/"+trx.OrderID+"/cancel", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, env.Message, "detik")
}

func TestCancelEndpoint_AfterWait(t *testing.T) {
	r, trxs, _ := newTestRouter(t, true)
	_, env := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)
	var trx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &trx))

	saved, err := trxs.GetByOrderID(trx.OrderID)
	require.NoError(t, err)
	saved.CreatedAt = saved.CreatedAt.Add(-3 * time.Minute)
	require.NoError(t, trxs.Save(saved))

	w, env := doJSON(r, http.MethodPost, "/api/order/"+trx.OrderID+"/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var cancelled models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestStatusEndpoint_NotFound(t *testing.T) {
	r, _, _ := newTestRouter(t, true)
	w, env := doJSON(r, http.MethodGet, "/api/order/INV-nope/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestStatusEndpoint_SettlesAndDeploys(t *testing.T) {
	r, _, gw := newTestRouter(t, true)
	_, env := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)
	var trx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &trx))

	gw.status = "completed"
	w, env := doJSON(r, http.MethodGet, "/api/order/"+trx.OrderID+"/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "paid", got.Status)
	assert.True(t, got.ServerCreated)
	require.NotNil(t, got.ServerDetail)
	assert.Equal(t, "https://panel.example.com", got.ServerDetail.PanelURL)
}

func TestSimulateEndpoint_ForbiddenOutsideSandbox(t *testing.T) {
	r, _, _ := newTestRouter(t, false)
	_, env := doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)
	var trx models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &trx))

	w, _ := doJSON(r, http.MethodPost, "/api/order/"+trx.OrderID+"/simulate", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t, true)
	_, _ = doJSON(r, http.MethodPost, "/api/order",
		`{"userId":"user_1","productId":"linux_1","usernameReq":"budi_123"}`)

	w, env := doJSON(r, http.MethodGet, "/api/history/user_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var trxs []models.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &trxs))
	assert.Len(t, trxs, 1)

	w, _ = doJSON(r, http.MethodGet, "/api/history/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
