package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mobileshop/backend/internal/domain/cart"
	"github.com/mobileshop/backend/internal/domain/catalog"
	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/infrastructure/kvstore"
	"github.com/mobileshop/backend/internal/infrastructure/logger"
	"github.com/mobileshop/backend/internal/infrastructure/shopapi"
)

// Session identifies the caller of one cart operation. The remote cart is
// authoritative only when a token is present; without one, the local cache is
// the fallback store, keyed by device.
type Session struct {
	Token    string
	DeviceID string
}

// Active reports whether an authenticated session exists
func (s Session) Active() bool {
	return s.Token != ""
}

func (s Session) cacheKey() string {
	if s.DeviceID == "" {
		return "anonymous"
	}
	return s.DeviceID
}

// RemoteCartClient is the slice of the remote cart service the application uses
type RemoteCartClient interface {
	FetchCart(ctx context.Context, token string) ([]shopapi.RemoteLine, error)
	AddItem(ctx context.Context, token, variantID, colorID string, quantity int64) (*shopapi.RemoteLine, error)
	UpdateQuantity(ctx context.Context, token, lineID string, quantity int64) error
	RemoveLines(ctx context.Context, token string, lineIDs []string) error
}

// CatalogClient rebuilds full lines from local product references
type CatalogClient interface {
	ProductByID(ctx context.Context, productID string) (*catalog.ProductSnapshot, error)
}

// ChangeListener observes canonical cart replacements. Listeners receive a
// by-value snapshot; the quote invalidation in checkout hangs off this.
type ChangeListener func(snapshot *cart.CanonicalCart)

// Service owns the canonical cart and the checkout selection. All mutation
// goes through its narrow API; callers depend on this interface, not on the
// storage mechanism behind it.
type Service struct {
	mu        sync.Mutex
	canonical *cart.CanonicalCart
	selection *cart.SelectionSet
	lastHash  uint64
	hashValid bool
	listeners []ChangeListener

	remote   RemoteCartClient
	catalog  CatalogClient
	cache    kvstore.Store // local fallback: device -> []CachedLine JSON
	sideMap  kvstore.Store // color repair table: lineID -> colorID
	resolver *cart.ColorResolver
}

// NewService creates a cart service
func NewService(remote RemoteCartClient, catalog CatalogClient, cache, sideMap kvstore.Store) *Service {
	return &Service{
		canonical: cart.EmptyCart(),
		selection: cart.NewSelectionSet(),
		remote:    remote,
		catalog:   catalog,
		cache:     cache,
		sideMap:   sideMap,
		resolver:  cart.NewColorResolver(),
	}
}

// OnChange registers a canonical cart change listener
func (s *Service) OnChange(listener ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Reconcile merges the remote cart and the local cache into one canonical
// cart. With an active session the remote representation replaces the
// canonical cart entirely; stale local entries are never merged in. On fetch
// failure or without a session, lines are rebuilt from the local cache against
// catalog snapshots. Downstream recomputation (quote reset, selection pruning)
// is dispatched only when the structural hash actually changed.
func (s *Service) Reconcile(ctx context.Context, sess Session) (*cart.CanonicalCart, error) {
	var lines []cart.CartLine

	if sess.Active() {
		remoteLines, err := s.remote.FetchCart(ctx, sess.Token)
		if err == nil {
			lines = s.linesFromRemote(ctx, remoteLines)
		} else {
			logger.L(ctx).Warn("remote cart fetch failed, falling back to local cache", zap.Error(err))
			lines, err = s.linesFromCache(ctx, sess)
			if err != nil {
				return nil, err
			}
		}
	} else {
		var err error
		lines, err = s.linesFromCache(ctx, sess)
		if err != nil {
			return nil, err
		}
	}

	next := cart.NewCanonicalCart(lines)
	s.replaceCanonical(next)
	return s.Snapshot(), nil
}

// linesFromRemote resolves each remote line's color through the fallback chain
func (s *Service) linesFromRemote(ctx context.Context, remoteLines []shopapi.RemoteLine) []cart.CartLine {
	lookup := s.sideMapLookup(ctx)
	lines := make([]cart.CartLine, 0, len(remoteLines))
	for i := range remoteLines {
		line := remoteLines[i].Line
		detail := cart.DetailFromVariant(&remoteLines[i].Variant)
		colorID, source := s.resolver.Resolve(line.LineID, detail, lookup)
		line.ColorID = colorID
		if colorID == "" {
			logger.L(ctx).Warn("line color unresolved after full fallback chain",
				zap.String("line_id", line.LineID))
		} else if source == "side_map" {
			logger.L(ctx).Debug("line color repaired from side map",
				zap.String("line_id", line.LineID))
		}
		lines = append(lines, line)
	}
	return lines
}

// linesFromCache rebuilds full cart lines from {productId, quantity} references
func (s *Service) linesFromCache(ctx context.Context, sess Session) ([]cart.CartLine, error) {
	cached, err := s.readCache(ctx, sess)
	if err != nil {
		return nil, err
	}

	lookup := s.sideMapLookup(ctx)
	lines := make([]cart.CartLine, 0, len(cached))
	for _, ref := range cached {
		product, err := s.catalog.ProductByID(ctx, ref.ProductID)
		if err != nil {
			// A product that no longer resolves drops out of the rebuilt cart
			logger.L(ctx).Warn("cached product no longer resolvable",
				zap.String("product_id", ref.ProductID), zap.Error(err))
			continue
		}
		variant := product.DefaultVariant()
		if variant == nil {
			continue
		}
		line, err := cart.NewCartLine(ref.ProductID, variant.VariantID,
			variant.Price, variant.DiscountedPrice, ref.Quantity, cart.LineSourceLocal)
		if err != nil {
			return nil, fmt.Errorf("rebuild line for product %s: %w", ref.ProductID, err)
		}
		colorID, _ := s.resolver.Resolve(line.LineID, cart.DetailFromVariant(variant), lookup)
		line.ColorID = colorID
		lines = append(lines, *line)
	}
	return lines, nil
}

// AddItem adds an item through the remote or local path. When the remote
// accepts a known color, that color is persisted into the side map
// immediately: the remote read path sometimes omits the field the write path
// just accepted.
func (s *Service) AddItem(ctx context.Context, sess Session, productID, variantID, colorID string, quantity int64) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	if sess.Active() {
		line, err := s.remote.AddItem(ctx, sess.Token, variantID, colorID, quantity)
		if err != nil {
			return err
		}
		if colorID != "" {
			if err := s.sideMap.Set(ctx, line.Line.LineID, colorID); err != nil {
				logger.L(ctx).Warn("side map write failed", zap.String("line_id", line.Line.LineID), zap.Error(err))
			}
		}
		_, err = s.Reconcile(ctx, sess)
		return err
	}

	cached, err := s.readCache(ctx, sess)
	if err != nil {
		return err
	}
	found := false
	for i := range cached {
		if cached[i].ProductID == productID {
			cached[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cached = append(cached, cart.CachedLine{ProductID: productID, Quantity: quantity})
	}
	if err := s.writeCache(ctx, sess, cached); err != nil {
		return err
	}
	_, err = s.Reconcile(ctx, sess)
	return err
}

// UpdateQuantity changes one line's quantity
func (s *Service) UpdateQuantity(ctx context.Context, sess Session, lineID string, quantity int64) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if s.findLine(lineID) == nil {
		return shared.ErrLineNotFound
	}

	if sess.Active() {
		if err := s.remote.UpdateQuantity(ctx, sess.Token, lineID, quantity); err != nil {
			return err
		}
	} else {
		cached, err := s.readCache(ctx, sess)
		if err != nil {
			return err
		}
		for i := range cached {
			if cached[i].ProductID == lineID {
				cached[i].Quantity = quantity
			}
		}
		if err := s.writeCache(ctx, sess, cached); err != nil {
			return err
		}
	}

	_, err := s.Reconcile(ctx, sess)
	return err
}

// RemoveLines removes a batch of lines and prunes any now-stale selections
func (s *Service) RemoveLines(ctx context.Context, sess Session, lineIDs []string) error {
	if len(lineIDs) == 0 {
		return nil
	}

	if sess.Active() {
		if err := s.remote.RemoveLines(ctx, sess.Token, lineIDs); err != nil {
			return err
		}
	} else {
		cached, err := s.readCache(ctx, sess)
		if err != nil {
			return err
		}
		removed := make(map[string]struct{}, len(lineIDs))
		for _, id := range lineIDs {
			removed[id] = struct{}{}
		}
		kept := cached[:0]
		for _, ref := range cached {
			if _, ok := removed[ref.ProductID]; !ok {
				kept = append(kept, ref)
			}
		}
		if err := s.writeCache(ctx, sess, kept); err != nil {
			return err
		}
	}

	_, err := s.Reconcile(ctx, sess)
	return err
}

// TrimAfterOrder removes the ordered lines best-effort: a trim failure never
// fails the order that already succeeded.
func (s *Service) TrimAfterOrder(ctx context.Context, sess Session, lineIDs []string) {
	if err := s.RemoveLines(ctx, sess, lineIDs); err != nil {
		logger.L(ctx).Warn("post-order cart trim failed", zap.Error(err))
	}
}

// Toggle flips one line's membership in the checkout selection
func (s *Service) Toggle(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(lineID)
}

// SelectAll marks every current line explicitly
func (s *Service) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAll(s.canonical)
}

// ClearSelection empties the selection, restoring default-select-all semantics
func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// SelectedIDs returns the explicitly selected line identifiers
func (s *Service) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// SelectedLines resolves the selection against the canonical cart. An empty
// selection means every line.
func (s *Service) SelectedLines() []cart.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Resolve(s.canonical)
}

// Snapshot returns a by-value copy of the canonical cart
func (s *Service) Snapshot() *cart.CanonicalCart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canonical.Snapshot()
}

// replaceCanonical swaps in the new cart if its structural hash differs from
// the last dispatch, pruning the selection and notifying listeners. A
// reconciliation that changed nothing dispatches nothing.
func (s *Service) replaceCanonical(next *cart.CanonicalCart) {
	s.mu.Lock()
	hash := next.Hash()
	if s.hashValid && hash == s.lastHash {
		s.mu.Unlock()
		return
	}
	s.canonical = next
	s.lastHash = hash
	s.hashValid = true
	s.selection.Prune(s.canonical)
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	snapshot := s.canonical.Snapshot()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

func (s *Service) findLine(lineID string) *cart.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canonical.FindLine(lineID)
}

// sideMapLookup adapts the side-map store to the resolver's lookup signature
func (s *Service) sideMapLookup(ctx context.Context) cart.SideMapLookup {
	return func(lineID string) string {
		colorID, err := s.sideMap.Get(ctx, lineID)
		if err != nil {
			return ""
		}
		return colorID
	}
}

func (s *Service) readCache(ctx context.Context, sess Session) ([]cart.CachedLine, error) {
	raw, err := s.cache.Get(ctx, sess.cacheKey())
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart cache: %w", err)
	}
	var cached []cart.CachedLine
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("decode cart cache: %w", err)
	}
	return cached, nil
}

func (s *Service) writeCache(ctx context.Context, sess Session, cached []cart.CachedLine) error {
	if cached == nil {
		cached = []cart.CachedLine{}
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode cart cache: %w", err)
	}
	if err := s.cache.Set(ctx, sess.cacheKey(), string(raw)); err != nil {
		return fmt.Errorf("write cart cache: %w", err)
	}
	return nil
}
