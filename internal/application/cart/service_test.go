package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/backend/internal/domain/cart"
	"github.com/mobileshop/backend/internal/domain/catalog"
	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
	"github.com/mobileshop/backend/internal/infrastructure/kvstore"
	"github.com/mobileshop/backend/internal/infrastructure/shopapi"
)

type fakeRemote struct {
	lines      []shopapi.RemoteLine
	fetchErr   error
	fetchCalls int

	addErr     error
	addedColor string
	updated    map[string]int64
	removed    [][]string
}

func (f *fakeRemote) FetchCart(ctx context.Context, token string) ([]shopapi.RemoteLine, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]shopapi.RemoteLine, len(f.lines))
	copy(out, f.lines)
	return out, nil
}

func (f *fakeRemote) AddItem(ctx context.Context, token, variantID, colorID string, quantity int64) (*shopapi.RemoteLine, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.addedColor = colorID
	line := remoteLine(lineIDFor(variantID), variantID, 1000, 800, quantity)
	f.lines = append(f.lines, line)
	return &line, nil
}

func (f *fakeRemote) UpdateQuantity(ctx context.Context, token, lineID string, quantity int64) error {
	if f.updated == nil {
		f.updated = make(map[string]int64)
	}
	f.updated[lineID] = quantity
	for i := range f.lines {
		if f.lines[i].Line.LineID == lineID {
			f.lines[i].Line.Quantity = quantity
		}
	}
	return nil
}

func (f *fakeRemote) RemoveLines(ctx context.Context, token string, lineIDs []string) error {
	f.removed = append(f.removed, lineIDs)
	removed := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		removed[id] = struct{}{}
	}
	kept := f.lines[:0]
	for _, l := range f.lines {
		if _, ok := removed[l.Line.LineID]; !ok {
			kept = append(kept, l)
		}
	}
	f.lines = kept
	return nil
}

type fakeCatalog struct {
	products map[string]*catalog.ProductSnapshot
}

func (f *fakeCatalog) ProductByID(ctx context.Context, productID string) (*catalog.ProductSnapshot, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "product gone")
	}
	return p, nil
}

func lineIDFor(variantID string) string {
	return "line-" + variantID
}

func remoteLine(lineID, variantID string, price, discounted, qty int64) shopapi.RemoteLine {
	line, err := cart.NewCartLine(lineID, variantID,
		valueobject.NewVND(price), valueobject.NewVND(discounted), qty, cart.LineSourceRemote)
	if err != nil {
		panic(err)
	}
	return shopapi.RemoteLine{
		Line: *line,
		Variant: catalog.VariantSnapshot{
			VariantID:       variantID,
			Price:           valueobject.NewVND(price),
			DiscountedPrice: valueobject.NewVND(discounted),
		},
	}
}

func newTestService(remote *fakeRemote, cat *fakeCatalog) (*Service, *kvstore.InMemoryStore, *kvstore.InMemoryStore) {
	if cat == nil {
		cat = &fakeCatalog{products: map[string]*catalog.ProductSnapshot{}}
	}
	cache := kvstore.NewInMemoryStore()
	sideMap := kvstore.NewInMemoryStore()
	return NewService(remote, cat, cache, sideMap), cache, sideMap
}

func TestService_Reconcile(t *testing.T) {
	ctx := context.Background()
	sess := Session{Token: "tok", DeviceID: "dev-1"}

	t.Run("remote is authoritative with an active session", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{
			remoteLine("l1", "v1", 1000, 800, 2),
		}}
		svc, cache, _ := newTestService(remote, nil)
		require.NoError(t, cache.Set(ctx, "dev-1", `[{"productId":"stale","quantity":9}]`))

		snap, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "l1", snap.Lines[0].LineID)
		assert.Equal(t, cart.LineSourceRemote, snap.Lines[0].Source)
	})

	t.Run("falls back to local cache when remote fetch fails", func(t *testing.T) {
		remote := &fakeRemote{fetchErr: errors.New("boom")}
		cat := &fakeCatalog{products: map[string]*catalog.ProductSnapshot{
			"p1": {ProductID: "p1", Variants: []catalog.VariantSnapshot{{
				VariantID:       "v1",
				Price:           valueobject.NewVND(1000),
				DiscountedPrice: valueobject.NewVND(800),
				ColorID:         "red",
			}}},
		}}
		svc, cache, _ := newTestService(remote, cat)
		require.NoError(t, cache.Set(ctx, "dev-1", `[{"productId":"p1","quantity":3}]`))

		snap, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "p1", snap.Lines[0].LineID)
		assert.Equal(t, int64(3), snap.Lines[0].Quantity)
		assert.Equal(t, "red", snap.Lines[0].ColorID)
		assert.Equal(t, cart.LineSourceLocal, snap.Lines[0].Source)
	})

	t.Run("without a session the cache is the source", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{remoteLine("l1", "v1", 1000, 800, 1)}}
		cat := &fakeCatalog{products: map[string]*catalog.ProductSnapshot{
			"p1": {ProductID: "p1", Variants: []catalog.VariantSnapshot{{
				VariantID:       "v1",
				Price:           valueobject.NewVND(500),
				DiscountedPrice: valueobject.NewVND(500),
			}}},
		}}
		svc, cache, _ := newTestService(remote, cat)
		require.NoError(t, cache.Set(ctx, "dev-1", `[{"productId":"p1","quantity":1}]`))

		snap, err := svc.Reconcile(ctx, Session{DeviceID: "dev-1"})
		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, cart.LineSourceLocal, snap.Lines[0].Source)
		assert.Zero(t, remote.fetchCalls)
	})

	t.Run("unresolvable cached products drop out of the rebuilt cart", func(t *testing.T) {
		remote := &fakeRemote{}
		cat := &fakeCatalog{products: map[string]*catalog.ProductSnapshot{
			"p2": {ProductID: "p2", Variants: []catalog.VariantSnapshot{{
				VariantID:       "v2",
				Price:           valueobject.NewVND(100),
				DiscountedPrice: valueobject.NewVND(100),
			}}},
		}}
		svc, cache, _ := newTestService(remote, cat)
		require.NoError(t, cache.Set(ctx, "dev-1",
			`[{"productId":"gone","quantity":1},{"productId":"p2","quantity":2}]`))

		snap, err := svc.Reconcile(ctx, Session{DeviceID: "dev-1"})
		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "p2", snap.Lines[0].LineID)
	})

	t.Run("side map repairs a color the read path omitted", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{
			remoteLine("l1", "v1", 1000, 800, 1),
		}}
		svc, _, sideMap := newTestService(remote, nil)
		require.NoError(t, sideMap.Set(ctx, "l1", "blue"))

		snap, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, "blue", snap.Lines[0].ColorID)
	})
}

func TestService_ChangeDispatch(t *testing.T) {
	ctx := context.Background()
	sess := Session{Token: "tok", DeviceID: "dev-1"}

	t.Run("unchanged reconciliation dispatches nothing", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{remoteLine("l1", "v1", 1000, 800, 1)}}
		svc, _, _ := newTestService(remote, nil)
		var dispatches int
		svc.OnChange(func(*cart.CanonicalCart) { dispatches++ })

		_, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		_, err = svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, 1, dispatches)
	})

	t.Run("a quantity change dispatches again", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{remoteLine("l1", "v1", 1000, 800, 1)}}
		svc, _, _ := newTestService(remote, nil)
		var dispatches int
		svc.OnChange(func(*cart.CanonicalCart) { dispatches++ })

		_, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		require.NoError(t, svc.UpdateQuantity(ctx, sess, "l1", 5))
		assert.Equal(t, 2, dispatches)
		assert.Equal(t, int64(5), svc.Snapshot().Lines[0].Quantity)
	})

	t.Run("listener receives a snapshot, not the live cart", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{remoteLine("l1", "v1", 1000, 800, 1)}}
		svc, _, _ := newTestService(remote, nil)
		var seen *cart.CanonicalCart
		svc.OnChange(func(c *cart.CanonicalCart) { seen = c })

		_, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, seen)
		seen.Lines[0].Quantity = 99
		assert.Equal(t, int64(1), svc.Snapshot().Lines[0].Quantity)
	})
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	sess := Session{Token: "tok", DeviceID: "dev-1"}

	t.Run("rejects quantity below one", func(t *testing.T) {
		svc, _, _ := newTestService(&fakeRemote{}, nil)
		err := svc.AddItem(ctx, sess, "p1", "v1", "", 0)
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_QUANTITY", derr.Code)
	})

	t.Run("persists an accepted color into the side map", func(t *testing.T) {
		remote := &fakeRemote{}
		svc, _, sideMap := newTestService(remote, nil)

		require.NoError(t, svc.AddItem(ctx, sess, "p1", "v1", "red", 2))
		assert.Equal(t, "red", remote.addedColor)

		got, err := sideMap.Get(ctx, lineIDFor("v1"))
		require.NoError(t, err)
		assert.Equal(t, "red", got)
	})

	t.Run("without a color the side map stays untouched", func(t *testing.T) {
		svc, _, sideMap := newTestService(&fakeRemote{}, nil)
		require.NoError(t, svc.AddItem(ctx, sess, "p1", "v1", "", 1))
		_, err := sideMap.Get(ctx, lineIDFor("v1"))
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
	})

	t.Run("local path increments an existing reference", func(t *testing.T) {
		cat := &fakeCatalog{products: map[string]*catalog.ProductSnapshot{
			"p1": {ProductID: "p1", Variants: []catalog.VariantSnapshot{{
				VariantID:       "v1",
				Price:           valueobject.NewVND(1000),
				DiscountedPrice: valueobject.NewVND(1000),
			}}},
		}}
		svc, _, _ := newTestService(&fakeRemote{}, cat)
		local := Session{DeviceID: "dev-1"}

		require.NoError(t, svc.AddItem(ctx, local, "p1", "v1", "", 1))
		require.NoError(t, svc.AddItem(ctx, local, "p1", "v1", "", 2))

		snap := svc.Snapshot()
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, int64(3), snap.Lines[0].Quantity)
	})
}

func TestService_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	sess := Session{Token: "tok", DeviceID: "dev-1"}

	t.Run("update of an unknown line fails", func(t *testing.T) {
		svc, _, _ := newTestService(&fakeRemote{}, nil)
		err := svc.UpdateQuantity(ctx, sess, "nope", 2)
		assert.ErrorIs(t, err, shared.ErrLineNotFound)
	})

	t.Run("removal prunes the selection", func(t *testing.T) {
		remote := &fakeRemote{lines: []shopapi.RemoteLine{
			remoteLine("l1", "v1", 1000, 800, 1),
			remoteLine("l2", "v2", 2000, 2000, 1),
		}}
		svc, _, _ := newTestService(remote, nil)
		_, err := svc.Reconcile(ctx, sess)
		require.NoError(t, err)

		svc.Toggle("l1")
		svc.Toggle("l2")
		require.Len(t, svc.SelectedIDs(), 2)

		require.NoError(t, svc.RemoveLines(ctx, sess, []string{"l1"}))
		assert.Equal(t, []string{"l2"}, svc.SelectedIDs())
	})

	t.Run("empty removal batch is a no-op", func(t *testing.T) {
		remote := &fakeRemote{}
		svc, _, _ := newTestService(remote, nil)
		require.NoError(t, svc.RemoveLines(ctx, sess, nil))
		assert.Empty(t, remote.removed)
	})
}

func TestService_Selection(t *testing.T) {
	ctx := context.Background()
	sess := Session{Token: "tok", DeviceID: "dev-1"}
	remote := &fakeRemote{lines: []shopapi.RemoteLine{
		remoteLine("l1", "v1", 1000, 800, 1),
		remoteLine("l2", "v2", 2000, 2000, 1),
	}}
	svc, _, _ := newTestService(remote, nil)
	_, err := svc.Reconcile(ctx, sess)
	require.NoError(t, err)

	t.Run("empty selection resolves to every line", func(t *testing.T) {
		assert.Len(t, svc.SelectedLines(), 2)
	})

	t.Run("toggle narrows to the subset", func(t *testing.T) {
		svc.Toggle("l2")
		lines := svc.SelectedLines()
		require.Len(t, lines, 1)
		assert.Equal(t, "l2", lines[0].LineID)
	})

	t.Run("clear restores select-all", func(t *testing.T) {
		svc.ClearSelection()
		assert.Len(t, svc.SelectedLines(), 2)
	})
}
