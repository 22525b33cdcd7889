package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"orbitcloud/internal/apperr"
	"orbitcloud/internal/catalog"
	"orbitcloud/internal/domain"
	"orbitcloud/internal/models"
	"orbitcloud/internal/repository"
	"orbitcloud/pkg/panel"
	"orbitcloud/pkg/payment"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

// OrderService owns the transaction state machine:
//
//	pending -> paid      (gateway settlement, or sandbox simulation + poll)
//	pending -> cancelled (user cancel, age >= 120s)
//	pending -> expired   (age > 30min, discovered lazily on poll)
//
// paid additionally flips server_created false -> true exactly once when
// deployment succeeds. All time windows are measured from created_at and
// evaluated at call time; nothing runs in the background.
type OrderService struct {
	userRepo *repository.UserRepository
	trxRepo  *repository.TransactionRepository
	products catalog.Repository
	gateway  payment.Gateway
	panel    panel.Client
	sandbox  bool

	// Per-order guard so concurrent polls cannot run two deployments for the
	// same order. Entries are never removed; orders are finite and small.
	deployMu sync.Mutex
	deploys  map[string]*sync.Mutex
}

func NewOrderService(
	userRepo *repository.UserRepository,
	trxRepo *repository.TransactionRepository,
	products catalog.Repository,
	gateway payment.Gateway,
	panelClient panel.Client,
	sandbox bool,
) *OrderService {
	return &OrderService{
		userRepo: userRepo,
		trxRepo:  trxRepo,
		products: products,
		gateway:  gateway,
		panel:    panelClient,
		sandbox:  sandbox,
		deploys:  make(map[string]*sync.Mutex),
	}
}

// CreateOrder validates the request, enforces the single-active-order lock,
// obtains a QRIS payment from the gateway and persists the new pending
// transaction. Exactly one gateway call per invocation; if it fails nothing
// is persisted.
func (s *OrderService) CreateOrder(ctx context.Context, userID, productID, usernameReq string) (*models.Transaction, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, apperr.New(apperr.CodeUnauthorized, "User tidak valid")
	}

	if !usernameRe.MatchString(usernameReq) {
		return nil, apperr.New(apperr.CodeInvalidInput, "Username hanya boleh huruf, angka, garis bawah, dan 3-16 karakter.")
	}

	product := s.products.FindByID(productID)
	if product == nil {
		return nil, apperr.New(apperr.CodeNotFound, "Produk tidak ditemukan")
	}

	// Anti double order: one pending transaction younger than the lock
	// window blocks any new order for this user. The blocking transaction is
	// returned so the client can resume it instead of starting over.
	now := time.Now()
	for _, t := range s.trxRepo.ListByEmail(user.Email) {
		if t.Status == domain.StatusPending && t.AgeSeconds(now) < domain.PendingLockSeconds {
			existing := t
			return nil, apperr.WithData(apperr.CodeConflict,
				"Selesaikan tagihan sebelumnya sebelum membuat pesanan baru!", &existing)
		}
	}

	orderID := fmt.Sprintf("INV-%d-%d", now.UnixMilli(), rand.Intn(1000))

	qris, err := s.gateway.CreateQRIS(ctx, orderID, product.Price)
	if err != nil {
		log.Printf("[ORDER] qris create failed order_id=%s: %v", orderID, err)
		return nil, apperr.New(apperr.CodeUpstreamError, "Gagal membuat tagihan pembayaran, coba lagi nanti")
	}

	trx := &models.Transaction{
		OrderID:       orderID,
		UserID:        user.ID,
		UserEmail:     user.Email,
		Amount:        qris.TotalAmount,
		OriginalPrice: product.Price,
		QRString:      qris.QRString,
		PaketType:     product.ID,
		PaketName:     product.Name,
		UsernameReq:   usernameReq,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		ServerCreated: false,
	}
	if err := s.trxRepo.Save(trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// CancelOrder cancels a pending order. Orders younger than the anti-spam
// window cannot be cancelled yet; the error payload carries the remaining
// wait so clients can render a countdown.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*models.Transaction, error) {
	trx, err := s.trxRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, apperr.New(apperr.CodeNotFound, "Transaksi tidak ditemukan")
	}
	if trx.Status != domain.StatusPending {
		return nil, apperr.New(apperr.CodeInvalidState, "Status tidak dapat dibatalkan")
	}

	age := trx.AgeSeconds(time.Now())
	if age < domain.CancelWaitSeconds {
		waitLeft := int(math.Ceil(domain.CancelWaitSeconds - age))
		return nil, apperr.WithData(apperr.CodeRateLimited,
			fmt.Sprintf("Proteksi Spam Aktif. Mohon tunggu %d detik lagi sebelum membatalkan.", waitLeft), waitLeft)
	}

	trx.Status = domain.StatusCancelled
	if err := s.trxRepo.Save(trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// SimulatePayment forwards a sandbox settlement to the gateway. It does not
// touch the transaction; the next status poll observes the settlement.
func (s *OrderService) SimulatePayment(ctx context.Context, orderID string) error {
	if !s.sandbox {
		return apperr.New(apperr.CodeForbidden, "Fitur ini hanya aktif di Mode Sandbox/Test.")
	}
	trx, err := s.trxRepo.GetByOrderID(orderID)
	if err != nil {
		return apperr.New(apperr.CodeNotFound, "Transaksi tidak ditemukan")
	}
	if err := s.gateway.Simulate(ctx, orderID, trx.Amount); err != nil {
		log.Printf("[ORDER] simulate failed order_id=%s: %v", orderID, err)
		return apperr.New(apperr.CodeUpstreamError, "Simulasi pembayaran gagal")
	}
	return nil
}

// CheckStatus is the reconciliation core, run on every client poll:
// lazily expire stale pending orders, retry deployment of paid-but-not-yet
// -provisioned orders, and otherwise reconcile pending orders against the
// gateway keyed by (order_id, original_price).
func (s *OrderService) CheckStatus(ctx context.Context, orderID string) (*models.Transaction, error) {
	trx, err := s.trxRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, apperr.New(apperr.CodeNotFound, "Transaksi tidak ditemukan")
	}

	if trx.Status == domain.StatusPending && trx.AgeSeconds(time.Now()) > domain.PendingLockSeconds {
		trx.Status = domain.StatusExpired
		if err := s.trxRepo.Save(trx); err != nil {
			return nil, err
		}
		return trx, nil
	}

	if trx.Status == domain.StatusPaid {
		if !trx.ServerCreated {
			s.deploy(ctx, trx)
		}
		return trx, nil
	}

	if trx.IsTerminal() {
		return trx, nil
	}

	gatewayStatus := s.gateway.CheckStatus(ctx, orderID, trx.OriginalPrice)
	if isSettled(gatewayStatus) {
		trx.Status = domain.StatusPaid
		s.deploy(ctx, trx)
		if err := s.trxRepo.Save(trx); err != nil {
			return nil, err
		}
	} else if gatewayStatus == domain.StatusExpired {
		trx.Status = domain.StatusExpired
		if err := s.trxRepo.Save(trx); err != nil {
			return nil, err
		}
	}

	return trx, nil
}

// History returns every transaction for the user's resolved email.
func (s *OrderService) History(ctx context.Context, userID string) ([]models.Transaction, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, apperr.New(apperr.CodeNotFound, "User tidak ditemukan")
	}
	trxs := s.trxRepo.ListByEmail(user.Email)
	if trxs == nil {
		trxs = []models.Transaction{}
	}
	return trxs, nil
}

func isSettled(status string) bool {
	for _, s := range domain.SettledStatuses {
		if status == s {
			return true
		}
	}
	return false
}

func (s *OrderService) orderLock(orderID string) *sync.Mutex {
	s.deployMu.Lock()
	defer s.deployMu.Unlock()
	mu, ok := s.deploys[orderID]
	if !ok {
		mu = &sync.Mutex{}
		s.deploys[orderID] = mu
	}
	return mu
}

// deploy provisions the panel account and server instance for a paid order.
// Every failure is logged and swallowed: the transaction stays paid with
// server_created=false, and the next poll retries from scratch. On success
// the credentials are persisted immediately.
func (s *OrderService) deploy(ctx context.Context, trx *models.Transaction) {
	mu := s.orderLock(trx.OrderID)
	mu.Lock()
	defer mu.Unlock()

	if trx.ServerCreated {
		return
	}
	// A concurrent poll may have finished the deployment while we waited for
	// the lock; re-read before touching the panel.
	if latest, err := s.trxRepo.GetByOrderID(trx.OrderID); err == nil && latest.ServerCreated {
		*trx = *latest
		return
	}

	product := s.products.FindByID(trx.PaketType)
	if product == nil {
		// The user already paid; do not surface this. Needs manual fixing.
		log.Printf("[ORDER] deploy aborted: product %q missing order_id=%s", trx.PaketType, trx.OrderID)
		return
	}

	panelUser, err := s.panel.CreateUser(ctx, trx.UsernameReq, trx.UserEmail)
	if err != nil || panelUser == nil {
		log.Printf("[ORDER] deploy: panel user not created order_id=%s err=%v", trx.OrderID, err)
		return
	}

	server, err := s.panel.CreateServer(ctx, panelUser.ID, product, trx.UsernameReq)
	if err != nil {
		log.Printf("[ORDER] deploy: server create failed order_id=%s: %v", trx.OrderID, err)
		return
	}

	trx.ServerCreated = true
	trx.ServerDetail = &models.ServerDetail{
		UUID:       server.UUID,
		Identifier: server.Identifier,
		PanelURL:   s.panel.PanelURL(),
		Username:   panelUser.Username,
		Password:   panelUser.Password,
		IP:         server.AllocationIP,
		Port:       server.AllocationPort,
	}
	// Persist right away; the window between deploy and this write is the
	// only place credentials can be lost.
	if err := s.trxRepo.Save(trx); err != nil {
		log.Printf("[ORDER] deploy: persist failed order_id=%s: %v", trx.OrderID, err)
	}
}
