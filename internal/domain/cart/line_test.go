package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// Test helpers
func testLine(t *testing.T, lineID string, price, discounted, qty int64) CartLine {
	t.Helper()
	line, err := NewCartLine(lineID, "variant-"+lineID, valueobject.NewVND(price), valueobject.NewVND(discounted), qty, LineSourceRemote)
	require.NoError(t, err)
	return *line
}

func testCart(t *testing.T, lineIDs ...string) *CanonicalCart {
	t.Helper()
	lines := make([]CartLine, 0, len(lineIDs))
	for _, id := range lineIDs {
		lines = append(lines, testLine(t, id, 1000, 800, 1))
	}
	return NewCanonicalCart(lines)
}

func TestNewCartLine(t *testing.T) {
	tests := []struct {
		name       string
		lineID     string
		variantID  string
		price      int64
		discounted int64
		quantity   int64
		wantErr    bool
	}{
		{"valid line", "l1", "v1", 1000, 800, 2, false},
		{"discount equals price", "l1", "v1", 1000, 1000, 1, false},
		{"zero quantity", "l1", "v1", 1000, 800, 0, true},
		{"negative quantity", "l1", "v1", 1000, 800, -1, true},
		{"discount exceeds price", "l1", "v1", 800, 1000, 1, true},
		{"empty line id", "", "v1", 1000, 800, 1, true},
		{"empty variant id", "l1", "", 1000, 800, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := NewCartLine(tt.lineID, tt.variantID, valueobject.NewVND(tt.price), valueobject.NewVND(tt.discounted), tt.quantity, LineSourceRemote)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lineID, line.LineID)
			assert.Equal(t, tt.quantity, line.Quantity)
			assert.False(t, line.HasColor())
		})
	}
}

func TestCanonicalCart_FindLine(t *testing.T) {
	cart := testCart(t, "a", "b", "c")

	require.NotNil(t, cart.FindLine("b"))
	assert.Equal(t, "b", cart.FindLine("b").LineID)
	assert.Nil(t, cart.FindLine("missing"))
}

func TestCanonicalCart_Snapshot(t *testing.T) {
	cart := testCart(t, "a", "b")
	snap := cart.Snapshot()

	// Mutating the snapshot must not touch the canonical cart
	snap.Lines[0].Quantity = 99
	assert.Equal(t, int64(1), cart.Lines[0].Quantity)
	assert.Equal(t, cart.LineIDs(), snap.LineIDs())
}

func TestCanonicalCart_Hash(t *testing.T) {
	t.Run("identical carts hash equal", func(t *testing.T) {
		a := testCart(t, "a", "b")
		b := testCart(t, "a", "b")
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("quantity change alters hash", func(t *testing.T) {
		a := testCart(t, "a", "b")
		b := testCart(t, "a", "b")
		b.Lines[1].Quantity = 5
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("color change alters hash", func(t *testing.T) {
		a := testCart(t, "a")
		b := testCart(t, "a")
		b.Lines[0].ColorID = "red"
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("line order matters", func(t *testing.T) {
		a := testCart(t, "a", "b")
		b := testCart(t, "b", "a")
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("empty cart is stable", func(t *testing.T) {
		assert.Equal(t, EmptyCart().Hash(), EmptyCart().Hash())
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		// "ab"+"c" must not collide with "a"+"bc"
		a := NewCanonicalCart([]CartLine{{LineID: "ab", ProductVariantID: "c", Quantity: 1}})
		b := NewCanonicalCart([]CartLine{{LineID: "a", ProductVariantID: "bc", Quantity: 1}})
		assert.NotEqual(t, a.Hash(), b.Hash())
	})
}
