package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appcart "github.com/mobileshop/backend/internal/application/cart"
	"github.com/mobileshop/backend/internal/domain/cart"
	"github.com/mobileshop/backend/internal/domain/checkout"
	"github.com/mobileshop/backend/internal/domain/payment"
	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
	"github.com/mobileshop/backend/internal/domain/shipping"
	"github.com/mobileshop/backend/internal/infrastructure/logger"
	"github.com/mobileshop/backend/internal/infrastructure/shopapi"
)

// Timeouts are the per-operation deadlines of the pipeline
type Timeouts struct {
	Quote       time.Duration
	PaymentURL  time.Duration
	OrderCreate time.Duration
}

// DefaultTimeouts returns the standard deadlines
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Quote:       10 * time.Second,
		PaymentURL:  10 * time.Second,
		OrderCreate: 30 * time.Second,
	}
}

// CartService is the slice of the cart application service checkout reads
type CartService interface {
	SelectedLines() []cart.CartLine
	TrimAfterOrder(ctx context.Context, sess appcart.Session, lineIDs []string)
	OnChange(appcart.ChangeListener)
}

// LocationClient resolves location identifiers to names
type LocationClient interface {
	Provinces(ctx context.Context) ([]shopapi.Province, error)
	CommunesByProvinceID(ctx context.Context, provinceID string) ([]shopapi.Commune, error)
}

// ShippingQuoter quotes a delivery fee for a named destination
type ShippingQuoter interface {
	QuoteFee(ctx context.Context, provinceName, communeName string) (valueobject.Money, error)
}

// OrderClient submits orders and exposes the status/cancel passthroughs
type OrderClient interface {
	CreateOrder(ctx context.Context, token string, draft *checkout.OrderDraft) (string, error)
	Status(ctx context.Context, token, orderID string) (*shopapi.OrderStatus, error)
	Cancel(ctx context.Context, token, orderID string) error
}

// SubmitResult is the outcome of one submission attempt
type SubmitResult struct {
	State      checkout.LifecycleState `json:"state"`
	OrderID    string                  `json:"orderId,omitempty"`
	PaymentURL string                  `json:"paymentUrl,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// Service drives the checkout pass: address and fee resolution, order
// assembly, and payment dispatch. It owns the selected address, the quote,
// and the lifecycle state; all reads hand out values.
type Service struct {
	mu      sync.Mutex
	address *checkout.Address
	quote   shipping.Quote
	state   checkout.LifecycleState
	orderID string

	// quoteCancel aborts the in-flight quote request when a newer address
	// selection arrives; quoteGen discards a superseded response that
	// settles after cancellation.
	quoteCancel context.CancelFunc
	quoteGen    uint64

	carts    CartService
	location LocationClient
	shipping ShippingQuoter
	orders   OrderClient
	gateway  payment.Gateway
	timeouts Timeouts
}

// NewService creates a checkout service. The cart change listener resets the
// quote: a reconciliation that actually changed the cart invalidates the fee.
func NewService(carts CartService, location LocationClient, quoter ShippingQuoter, orders OrderClient, gateway payment.Gateway, timeouts Timeouts) *Service {
	s := &Service{
		quote:    shipping.UnresolvedQuote(),
		state:    checkout.StateDrafting,
		carts:    carts,
		location: location,
		shipping: quoter,
		orders:   orders,
		gateway:  gateway,
		timeouts: timeouts,
	}
	carts.OnChange(func(*cart.CanonicalCart) {
		s.ResetQuote()
	})
	return s
}

// Quote returns the current quote state
func (s *Service) Quote() shipping.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

// State returns the current lifecycle state
func (s *Service) State() checkout.LifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Address returns the currently selected address, or nil
func (s *Service) Address() *checkout.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.address == nil {
		return nil
	}
	addr := *s.address
	return &addr
}

// ResetQuote drops the current quote back to unresolved and aborts any
// in-flight quote request
func (s *Service) ResetQuote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetQuoteLocked()
}

func (s *Service) resetQuoteLocked() {
	if s.quoteCancel != nil {
		s.quoteCancel()
		s.quoteCancel = nil
	}
	s.quoteGen++
	s.quote = shipping.UnresolvedQuote()
}

// SelectAddress resolves the given address into a shipping fee. The prior
// quote is reset to unresolved before anything else so a stale fee is never
// shown while a new one is pending, and the prior in-flight request is
// cancelled: last write wins, an older response can never overwrite a newer
// selection's state. No default fee is ever substituted at this layer.
func (s *Service) SelectAddress(ctx context.Context, addr checkout.Address) shipping.Quote {
	s.mu.Lock()
	s.resetQuoteLocked()
	gen := s.quoteGen
	s.address = &addr

	qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeouts.Quote)
	s.quoteCancel = cancel
	s.mu.Unlock()
	defer cancel()

	quote := s.resolveQuote(qctx, &addr)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.quoteGen {
		// Superseded by a newer selection while this one was in flight
		return s.quote
	}
	s.quote = quote
	s.quoteCancel = nil
	return s.quote
}

// resolveQuote translates the address into names and asks the quoting service
func (s *Service) resolveQuote(ctx context.Context, addr *checkout.Address) shipping.Quote {
	provinceName := addr.ProvinceName
	communeName := addr.CommuneName

	if !addr.HasResolvedNames() {
		var err error
		provinceName, communeName, err = s.resolveNames(ctx, addr)
		if err != nil {
			logger.L(ctx).Warn("address name resolution failed",
				zap.String("address_id", addr.AddressID), zap.Error(err))
			return shipping.FailedQuote(shared.UserMessage(err))
		}
	}

	fee, err := s.shipping.QuoteFee(ctx, provinceName, communeName)
	if err != nil {
		logger.L(ctx).Warn("shipping fee quote failed",
			zap.String("province", provinceName),
			zap.String("commune", communeName),
			zap.Error(err))
		return shipping.FailedQuote(shared.UserMessage(err))
	}

	return shipping.ResolvedQuote(provinceName, communeName, fee)
}

// resolveNames resolves provinceId and communeId through the location
// directory, coercing string-typed identifiers to numeric form.
func (s *Service) resolveNames(ctx context.Context, addr *checkout.Address) (string, string, error) {
	provinceID, err := shopapi.CoerceID(addr.ProvinceID)
	if err != nil {
		return "", "", shared.NewDomainError("ADDRESS_INVALID", "Mã tỉnh/thành phố không hợp lệ")
	}
	communeID, err := shopapi.CoerceID(addr.CommuneID)
	if err != nil {
		return "", "", shared.NewDomainError("ADDRESS_INVALID", "Mã phường/xã không hợp lệ")
	}

	provinces, err := s.location.Provinces(ctx)
	if err != nil {
		return "", "", err
	}
	var provinceName string
	for _, p := range provinces {
		if p.ID == provinceID {
			provinceName = p.Name
			break
		}
	}
	if provinceName == "" {
		return "", "", shared.NewDomainError("ADDRESS_INVALID", "Không tìm thấy tỉnh/thành phố của địa chỉ")
	}

	communes, err := s.location.CommunesByProvinceID(ctx, addr.ProvinceID)
	if err != nil {
		return "", "", err
	}
	var communeName string
	for _, c := range communes {
		if c.ID == communeID {
			communeName = c.Name
			break
		}
	}
	if communeName == "" {
		return "", "", shared.NewDomainError("ADDRESS_INVALID", "Không tìm thấy phường/xã của địa chỉ")
	}

	return provinceName, communeName, nil
}

// Assemble builds the order draft from the current selection, address, quote
// and payment method. Validation failures are returned as a complete list.
func (s *Service) Assemble(method payment.Method) (*checkout.OrderDraft, shared.ValidationErrors) {
	selected := s.carts.SelectedLines()

	s.mu.Lock()
	addr := s.address
	quote := s.quote
	s.mu.Unlock()

	return checkout.Assemble(selected, addr, quote, method, checkout.AssembleOptions{})
}

// Submit runs one submission attempt end to end. Order creation always comes
// first: an order identifier must exist before any payment action. The
// payment branch then either settles immediately or hands out a redirect URL
// and waits for the gateway return.
func (s *Service) Submit(ctx context.Context, sess appcart.Session, method payment.Method, clientIP string) (*SubmitResult, error) {
	// A terminal outcome ends its pass; a new submission starts a new one
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.state = checkout.StateDrafting
		s.orderID = ""
	}
	s.mu.Unlock()

	selectedIDs := lineIDs(s.carts.SelectedLines())

	draft, verrs := s.Assemble(method)
	if verrs.HasErrors() {
		return &SubmitResult{State: s.State()}, verrs
	}

	s.transition(ctx, checkout.StateSubmitting)

	octx, cancel := context.WithTimeout(ctx, s.timeouts.OrderCreate)
	orderID, err := s.orders.CreateOrder(octx, sess.Token, draft)
	cancel()
	if err != nil {
		// The draft is discarded; the user returns to an editable state
		s.transition(ctx, checkout.StateSubmissionRejected)
		result := &SubmitResult{
			State:   checkout.StateSubmissionRejected,
			Message: shared.UserMessage(err),
		}
		s.setState(checkout.StateDrafting)
		return result, err
	}

	s.mu.Lock()
	s.orderID = orderID
	s.mu.Unlock()
	s.transition(ctx, checkout.StateSubmitted)

	if method.Code.IsImmediate() {
		s.transition(ctx, checkout.StatePaidImmediate)
		s.transition(ctx, checkout.StateConfirmed)
		// Best effort only; the order is already confirmed
		s.carts.TrimAfterOrder(ctx, sess, selectedIDs)
		return &SubmitResult{State: checkout.StateConfirmed, OrderID: orderID}, nil
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeouts.PaymentURL)
	payURL, err := s.gateway.CreatePaymentURL(pctx, payment.InitiationRequest{
		OrderID:  orderID,
		Amount:   draft.FinalAmount,
		ClientIP: clientIP,
	})
	cancel()
	if err != nil {
		// The created order is kept; payment can be retried against it
		s.transition(ctx, checkout.StatePaymentFailed)
		return &SubmitResult{
			State:   checkout.StatePaymentFailed,
			OrderID: orderID,
			Message: shared.UserMessage(err),
		}, err
	}

	s.transition(ctx, checkout.StateAwaitingGateway)
	return &SubmitResult{
		State:      checkout.StateAwaitingGateway,
		OrderID:    orderID,
		PaymentURL: payURL,
	}, nil
}

// hashVerifier is implemented by gateways whose return URLs carry a
// verifiable signature
type hashVerifier interface {
	VerifySecureHash(rawURL string) (bool, error)
}

// HandleGatewayReturn classifies a redirect URL and advances the lifecycle.
// A URL with no gateway parameters yields (nil, nil): not every navigation
// inside the payment surface is a callback. A callback with a bad or missing
// signature is rejected, and one for a different order never advances the
// current pass.
func (s *Service) HandleGatewayReturn(ctx context.Context, rawURL string) (*payment.CallbackResult, error) {
	result, err := s.gateway.ParseReturnURL(rawURL)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	if v, ok := s.gateway.(hashVerifier); ok {
		valid, err := v.VerifySecureHash(rawURL)
		if err != nil {
			return nil, err
		}
		if !valid {
			logger.L(ctx).Warn("gateway return with invalid signature rejected",
				zap.String("order_id", result.OrderID))
			return nil, shared.NewDomainError("CALLBACK_INVALID", "Dữ liệu thanh toán không hợp lệ")
		}
	}

	s.mu.Lock()
	state := s.state
	orderID := s.orderID
	s.mu.Unlock()

	if state == checkout.StateAwaitingGateway {
		if result.OrderID != orderID {
			logger.L(ctx).Warn("gateway return for another order ignored",
				zap.String("order_id", result.OrderID),
				zap.String("current_order_id", orderID))
		} else if result.Success {
			s.transition(ctx, checkout.StateConfirmed)
		} else {
			s.transition(ctx, checkout.StatePaymentFailed)
		}
	}

	logger.L(ctx).Info("gateway return classified",
		zap.Bool("success", result.Success),
		zap.String("order_id", result.OrderID),
		zap.String("reason_code", result.ReasonCode))
	return result, nil
}

// OrderStatus queries the order service for a submitted order
func (s *Service) OrderStatus(ctx context.Context, sess appcart.Session, orderID string) (*shopapi.OrderStatus, error) {
	return s.orders.Status(ctx, sess.Token, orderID)
}

// CancelOrder requests cancellation of a submitted order
func (s *Service) CancelOrder(ctx context.Context, sess appcart.Session, orderID string) error {
	return s.orders.Cancel(ctx, sess.Token, orderID)
}

// transition moves the lifecycle forward, logging any contract violation
func (s *Service) transition(ctx context.Context, target checkout.LifecycleState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.CanTransitionTo(target) {
		logger.L(ctx).Error("invalid lifecycle transition",
			zap.String("from", s.state.String()),
			zap.String("to", target.String()))
		return
	}
	s.state = target
}

// setState force-sets the lifecycle state. Used to return to DRAFTING after a
// terminal rejection, which is a new pass rather than a transition.
func (s *Service) setState(state checkout.LifecycleState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func lineIDs(lines []cart.CartLine) []string {
	ids := make([]string, len(lines))
	for i := range lines {
		ids[i] = lines[i].LineID
	}
	return ids
}
