package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/edustore/checkout-service/internal/application/cartstore"
	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/domain/checkout"
	"github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/clock"
	"github.com/edustore/checkout-service/internal/pkg/generator"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type Config struct {
	PaymentsEnabled bool
	Currency        string
	// WidgetKey is the publishable gateway key, used when the order
	// service does not return a per-order key.
	WidgetKey string
	LockTTL   time.Duration
	// DisplayDelay is how long the success state stays visible before the
	// completion callback fires and the session is released.
	DisplayDelay time.Duration
}

// Orchestrator converts the current cart into exactly one paid order.
// Every purchase attempt runs inside its own session; sessions are never
// resurrected, so a retry after an error always creates a new server order
// and a new gateway order.
type Orchestrator struct {
	mu           sync.Mutex
	sessions     map[string]*checkout.Session
	activeByUser map[string]string
	inFlight     map[string]bool

	carts    *cartstore.Manager
	orders   ports.OrderGateway
	verifier ports.VerificationGateway
	probe    ports.GatewayProbe
	cache    ports.Cache
	journal  ports.Journal
	events   *bus.Bus
	idGen    *generator.IDGenerator
	clk      clock.Clock
	log      *logger.Logger
	cfg      Config

	onComplete func(sessionID string)
}

func New(
	carts *cartstore.Manager,
	orders ports.OrderGateway,
	verifier ports.VerificationGateway,
	probe ports.GatewayProbe,
	cache ports.Cache,
	journal ports.Journal,
	events *bus.Bus,
	clk clock.Clock,
	log *logger.Logger,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		sessions:     make(map[string]*checkout.Session),
		activeByUser: make(map[string]string),
		inFlight:     make(map[string]bool),
		carts:        carts,
		orders:       orders,
		verifier:     verifier,
		probe:        probe,
		cache:        cache,
		journal:      journal,
		events:       events,
		idGen:        generator.NewIDGenerator(),
		clk:          clk,
		log:          log,
		cfg:          cfg,
	}
}

// OnComplete registers the caller-supplied completion callback invoked
// after the success display delay.
func (o *Orchestrator) OnComplete(fn func(sessionID string)) {
	o.onComplete = fn
}

// Begin drives the review → processing transition: it validates the cart,
// creates one new server order plus gateway order, opens a session and
// returns the parameters the client needs to open the payment widget.
func (o *Orchestrator) Begin(ctx context.Context, userID string) (*checkout.WidgetParams, error) {
	store := o.carts.ForUser(userID)

	// The mirror starts empty in every process; the remote cart service
	// is the source of truth, so refresh before judging emptiness or
	// snapshotting the amount.
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	if store.IsEmpty() {
		return nil, errors.ErrEmptyCart
	}

	if !o.cfg.PaymentsEnabled {
		return nil, errors.ErrFeatureUnavailable
	}

	if err := o.probe.Available(ctx); err != nil {
		o.log.Error("Payment gateway script unavailable", "error", err)
		return nil, errors.ErrGatewayUnavailable
	}

	locked, err := o.cache.AcquireCheckoutLock(ctx, userID, o.cfg.LockTTL)
	if err != nil {
		o.log.Error("Failed to acquire checkout lock", "error", err, "user_id", userID)
		return nil, errors.ErrNetworkFailure
	}
	if !locked {
		return nil, errors.ErrCheckoutInProgress
	}

	snapshot := store.Snapshot(o.cfg.Currency, o.clk.Now())

	receiptID, err := o.idGen.GenerateReceiptID(userID)
	if err != nil {
		o.releaseLock(ctx, userID)
		return nil, err
	}

	monitoring.RecordCheckoutAttempt(userID)

	order, err := o.orders.CreateOrder(ctx, userID, receiptID, snapshot)
	if err != nil {
		o.log.Error("Order creation failed", "error", err, "user_id", userID)
		o.releaseLock(ctx, userID)
		monitoring.RecordCheckoutFailure(errors.Label(errors.ErrNetworkFailure))
		return nil, errors.ErrNetworkFailure
	}

	sessionID, err := o.idGen.GenerateSessionID()
	if err != nil {
		o.releaseLock(ctx, userID)
		return nil, err
	}

	session, err := checkout.NewSession(sessionID, userID, *order, snapshot, o.clk.Now())
	if err != nil {
		o.releaseLock(ctx, userID)
		return nil, err
	}

	o.mu.Lock()
	o.sessions[sessionID] = session
	o.activeByUser[userID] = sessionID
	o.mu.Unlock()

	if err := o.journal.RecordAttempt(ctx, session); err != nil {
		o.log.Error("Failed to journal checkout attempt", "error", err, "session_id", sessionID)
	}

	var prefill checkout.Prefill
	if u, ok := identity.UserFromContext(ctx); ok {
		prefill = u.Prefill()
	}

	o.log.Info("Checkout session opened",
		"session_id", sessionID,
		"user_id", userID,
		"server_order_id", order.ServerOrderID,
		"gateway_order_id", order.GatewayOrderID,
		"amount", order.Amount,
	)

	widgetKey := order.WidgetKey
	if widgetKey == "" {
		widgetKey = o.cfg.WidgetKey
	}

	return &checkout.WidgetParams{
		SessionID:      sessionID,
		WidgetKey:      widgetKey,
		GatewayOrderID: order.GatewayOrderID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		Prefill:        prefill,
	}, nil
}

// HandleSuccess handles the widget's success callback. The proof is
// submitted to server-side verification; only a confirmed verification
// advances the session to success. A verification failure is terminal and
// deliberately not retried, since retrying without idempotency guarantees
// risks duplicate fulfillment.
func (o *Orchestrator) HandleSuccess(ctx context.Context, sessionID string, proof checkout.PaymentProof) (*checkout.Session, error) {
	session, err := o.claimSession(sessionID)
	if err != nil {
		return nil, err
	}
	defer o.releaseClaim(sessionID)

	if !session.Matches(proof.GatewayOrderID) {
		o.log.Warn("Ignoring callback with stale gateway order",
			"session_id", sessionID,
			"callback_gateway_order_id", proof.GatewayOrderID,
			"active_gateway_order_id", session.GatewayOrderID,
		)
		return session, errors.ErrStaleCallback
	}

	resolved, err := o.cache.GatewayOrderResolved(ctx, session.GatewayOrderID)
	if err != nil {
		o.log.Error("Failed to check gateway order dedup", "error", err, "session_id", sessionID)
	} else if resolved {
		return session, errors.ErrSessionTerminal
	}

	stopTimer := monitoring.TimeVerification()
	result, verifyErr := o.verifier.VerifyPayment(ctx, session.ServerOrderID, proof)
	stopTimer()

	if verifyErr != nil || result == nil || !result.Verified {
		reason := errors.Label(errors.ErrVerificationFailed)
		if verifyErr != nil {
			o.log.Error("Verification call failed", "error", verifyErr, "session_id", sessionID)
		} else if result != nil && result.FailureReason != "" {
			reason = result.FailureReason
		}
		o.resolveError(ctx, session, reason)
		return session, errors.ErrVerificationFailed
	}

	o.mu.Lock()
	markErr := session.MarkSuccess()
	o.mu.Unlock()
	if markErr != nil {
		return session, errors.ErrSessionTerminal
	}

	if err := o.cache.MarkGatewayOrderResolved(ctx, session.GatewayOrderID, 24*time.Hour); err != nil {
		o.log.Error("Failed to mark gateway order resolved", "error", err, "session_id", sessionID)
	}

	// Remove exactly the snapshotted items, not a blind clear, so items
	// added concurrently during payment stay in the cart.
	store := o.carts.ForUser(session.UserID)
	for _, productID := range session.Snapshot.ProductIDs() {
		if err := store.Remove(ctx, productID); err != nil {
			o.log.Error("Failed to remove purchased item from cart",
				"error", err, "session_id", sessionID, "product_id", productID)
		}
	}

	o.events.Publish(bus.OrdersUpdated)

	if err := o.journal.RecordResolution(ctx, sessionID, checkout.StatusSuccess, ""); err != nil {
		o.log.Error("Failed to journal checkout resolution", "error", err, "session_id", sessionID)
	}
	monitoring.RecordCheckoutSuccess()

	o.releaseLock(ctx, session.UserID)

	o.log.Info("Checkout completed",
		"session_id", sessionID,
		"user_id", session.UserID,
		"order_ref", result.OrderRef,
	)

	o.completeAfterDelay(sessionID, session.UserID)

	return session, nil
}

// HandleFailure handles the widget's explicit failure callback, capturing
// the gateway's reported reason verbatim.
func (o *Orchestrator) HandleFailure(ctx context.Context, sessionID, reason string) (*checkout.Session, error) {
	session, err := o.claimSession(sessionID)
	if err != nil {
		return nil, err
	}
	defer o.releaseClaim(sessionID)

	if reason == "" {
		reason = errors.Label(errors.ErrGatewayFailed)
	}
	o.resolveError(ctx, session, reason)

	return session, nil
}

// HandleDismiss handles the user closing the widget before paying. No
// charge was attempted, so this is a silent return to review: the session
// is discarded without entering the error state and the cart is untouched.
func (o *Orchestrator) HandleDismiss(ctx context.Context, sessionID string) error {
	session, err := o.claimSession(sessionID)
	if err != nil {
		return err
	}
	defer o.releaseClaim(sessionID)

	if err := o.journal.RecordResolution(ctx, sessionID, checkout.StatusReview, errors.Label(errors.ErrGatewayDismissed)); err != nil {
		o.log.Error("Failed to journal dismissal", "error", err, "session_id", sessionID)
	}

	o.discard(sessionID, session.UserID)
	o.releaseLock(ctx, session.UserID)

	o.log.Info("Checkout dismissed", "session_id", sessionID, "user_id", session.UserID)
	return nil
}

// Reset abandons an errored session so the next attempt starts fresh with
// a brand-new server order. It is only meaningful after a terminal error.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	o.mu.Lock()
	session, ok := o.sessions[sessionID]
	busy := o.inFlight[sessionID]
	o.mu.Unlock()
	if !ok {
		return errors.ErrSessionNotFound
	}
	if busy {
		return errors.ErrSessionTerminal
	}

	o.discard(sessionID, session.UserID)
	o.releaseLock(ctx, session.UserID)
	return nil
}

// Session returns the session by id, terminal or not.
func (o *Orchestrator) Session(sessionID string) (*checkout.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, ok := o.sessions[sessionID]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

// ExpireStale discards processing sessions older than maxAge. The widget
// was opened but no callback ever arrived, which is treated like a
// dismissal: no charge was confirmed, so nothing is fulfilled.
func (o *Orchestrator) ExpireStale(ctx context.Context, maxAge time.Duration) int {
	o.mu.Lock()
	var stale []*checkout.Session
	for _, session := range o.sessions {
		if session.Status == checkout.StatusProcessing && !o.inFlight[session.ID] && o.clk.Since(session.CreatedAt) > maxAge {
			stale = append(stale, session)
		}
	}
	o.mu.Unlock()

	for _, session := range stale {
		o.log.Warn("Expiring stale checkout session", "session_id", session.ID, "user_id", session.UserID)
		if err := o.journal.RecordResolution(ctx, session.ID, checkout.StatusReview, "expired"); err != nil {
			o.log.Error("Failed to journal expiry", "error", err, "session_id", session.ID)
		}
		o.discard(session.ID, session.UserID)
		o.releaseLock(ctx, session.UserID)
	}

	return len(stale)
}

// claimSession atomically reserves a non-terminal session for a single
// gateway callback. While the claim is held every other callback for the
// same session is turned away before it can reach the verifier, so
// verification and the terminal transition run at most once per session.
func (o *Orchestrator) claimSession(sessionID string) (*checkout.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, ok := o.sessions[sessionID]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	if session.Status.IsTerminal() || o.inFlight[sessionID] {
		return session, errors.ErrSessionTerminal
	}
	o.inFlight[sessionID] = true
	return session, nil
}

func (o *Orchestrator) releaseClaim(sessionID string) {
	o.mu.Lock()
	delete(o.inFlight, sessionID)
	o.mu.Unlock()
}

func (o *Orchestrator) resolveError(ctx context.Context, session *checkout.Session, reason string) {
	o.mu.Lock()
	err := session.MarkError(reason)
	o.mu.Unlock()
	if err != nil {
		o.log.Error("Illegal session transition", "error", err, "session_id", session.ID)
		return
	}

	if err := o.journal.RecordResolution(ctx, session.ID, checkout.StatusError, reason); err != nil {
		o.log.Error("Failed to journal checkout resolution", "error", err, "session_id", session.ID)
	}
	monitoring.RecordCheckoutFailure(reason)

	o.releaseLock(ctx, session.UserID)
}

func (o *Orchestrator) completeAfterDelay(sessionID, userID string) {
	finish := func() {
		if o.onComplete != nil {
			o.onComplete(sessionID)
		}
		o.discard(sessionID, userID)
	}

	if o.cfg.DisplayDelay <= 0 {
		finish()
		return
	}

	go func() {
		o.clk.Sleep(o.cfg.DisplayDelay)
		finish()
	}()
}

func (o *Orchestrator) discard(sessionID, userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, sessionID)
	if o.activeByUser[userID] == sessionID {
		delete(o.activeByUser, userID)
	}
}

func (o *Orchestrator) releaseLock(ctx context.Context, userID string) {
	if err := o.cache.ReleaseCheckoutLock(ctx, userID); err != nil {
		o.log.Error("Failed to release checkout lock", "error", err, "user_id", userID)
	}
}
