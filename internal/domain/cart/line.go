package cart

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// LineSource identifies which store a cart line came from
type LineSource string

const (
	LineSourceRemote LineSource = "remote"
	LineSourceLocal  LineSource = "local"
)

// CartLine is one product-variant-quantity entry in the canonical cart.
// ColorID is empty when none of the color sources resolved it; callers must
// treat an empty color as unknown, never as a default color.
type CartLine struct {
	LineID              string            `json:"lineId"`
	ProductVariantID    string            `json:"productVariantId"`
	ColorID             string            `json:"colorId,omitempty"`
	UnitPrice           valueobject.Money `json:"unitPrice"`
	UnitDiscountedPrice valueobject.Money `json:"unitDiscountedPrice"`
	Quantity            int64             `json:"quantity"`
	Source              LineSource        `json:"source"`
}

// NewCartLine creates a cart line, enforcing the line invariants
func NewCartLine(lineID, variantID string, unitPrice, unitDiscountedPrice valueobject.Money, quantity int64, source LineSource) (*CartLine, error) {
	if lineID == "" {
		return nil, shared.NewDomainError("INVALID_LINE", "Line ID cannot be empty")
	}
	if variantID == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Product variant ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	ok, err := unitDiscountedPrice.LessThanOrEqual(unitPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
	}
	if !ok {
		return nil, shared.NewDomainError("INVALID_PRICE", "Discounted price cannot exceed unit price")
	}
	return &CartLine{
		LineID:              lineID,
		ProductVariantID:    variantID,
		UnitPrice:           unitPrice,
		UnitDiscountedPrice: unitDiscountedPrice,
		Quantity:            quantity,
		Source:              source,
	}, nil
}

// HasColor reports whether the line color was resolved
func (l *CartLine) HasColor() bool {
	return l.ColorID != ""
}

// CachedLine is the local fallback store's reference to a cart line.
// Only the product and quantity survive without a session; everything else is
// rebuilt from a catalog snapshot during reconciliation.
type CachedLine struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// CanonicalCart is the single in-memory cart after reconciling remote and
// local sources. Line order is the source order and is stable across
// reconciliations with no intervening mutation.
type CanonicalCart struct {
	Lines []CartLine `json:"lines"`
}

// NewCanonicalCart creates a canonical cart from the given lines
func NewCanonicalCart(lines []CartLine) *CanonicalCart {
	if lines == nil {
		lines = []CartLine{}
	}
	return &CanonicalCart{Lines: lines}
}

// EmptyCart returns a canonical cart with no lines
func EmptyCart() *CanonicalCart {
	return &CanonicalCart{Lines: []CartLine{}}
}

// IsEmpty returns true if the cart has no lines
func (c *CanonicalCart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the line with the given id, or nil
func (c *CanonicalCart) FindLine(lineID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// LineIDs returns the line identifiers in canonical order
func (c *CanonicalCart) LineIDs() []string {
	ids := make([]string, len(c.Lines))
	for i := range c.Lines {
		ids[i] = c.Lines[i].LineID
	}
	return ids
}

// Snapshot returns a by-value copy of the cart. Consumers never receive a
// live reference to the canonical lines.
func (c *CanonicalCart) Snapshot() *CanonicalCart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return &CanonicalCart{Lines: lines}
}

// Hash returns a structural digest of the cart. Two reconciliations with no
// intervening mutation produce the same hash, which gates downstream
// recomputation (shipping fee reset, selection pruning).
func (c *CanonicalCart) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeStr := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(s)
	}
	for i := range c.Lines {
		l := &c.Lines[i]
		writeStr(l.LineID)
		writeStr(l.ProductVariantID)
		writeStr(l.ColorID)
		writeStr(l.UnitPrice.Amount().String())
		writeStr(l.UnitDiscountedPrice.Amount().String())
		writeStr(strconv.FormatInt(l.Quantity, 10))
		writeStr(string(l.Source))
	}
	return d.Sum64()
}
