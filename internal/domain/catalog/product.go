package catalog

import (
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// ColorRef is a nested color object as returned by the catalog and cart
// services. Some read paths return only the identifier, some the full object,
// and some omit color entirely; callers must treat every field as optional.
type ColorRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// InventoryRecord is the per-variant stock record. The catalog sometimes
// carries the variant color only here rather than on the variant itself.
type InventoryRecord struct {
	ColorID  string    `json:"colorId,omitempty"`
	Color    *ColorRef `json:"color,omitempty"`
	Quantity int64     `json:"quantity"`
}

// VariantSnapshot is one purchasable product variant as seen in a catalog
// snapshot. Price fields are whole VND.
type VariantSnapshot struct {
	VariantID       string            `json:"variantId"`
	ProductID       string            `json:"productId"`
	Name            string            `json:"name"`
	Price           valueobject.Money `json:"price"`
	DiscountedPrice valueobject.Money `json:"discountedPrice"`
	ColorID         string            `json:"colorId,omitempty"`
	Color           *ColorRef         `json:"color,omitempty"`
	ColorValue      *int64            `json:"colorValue,omitempty"`
	Inventory       *InventoryRecord  `json:"inventory,omitempty"`
	Inventories     []InventoryRecord `json:"inventories,omitempty"`
}

// ProductSnapshot is the catalog collaborator's view of one product, used to
// rebuild full cart lines from local {productId, quantity} references.
type ProductSnapshot struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Variants  []VariantSnapshot `json:"variants"`
}

// DefaultVariant returns the variant a bare product reference maps to.
// Local cache entries carry no variant choice, so the first variant stands in.
func (p *ProductSnapshot) DefaultVariant() *VariantSnapshot {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// FindVariant returns the variant with the given id, or nil
func (p *ProductSnapshot) FindVariant(variantID string) *VariantSnapshot {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// FirstInventory returns the variant's inventory record, preferring the
// singular field over the list form
func (v *VariantSnapshot) FirstInventory() *InventoryRecord {
	if v.Inventory != nil {
		return v.Inventory
	}
	if len(v.Inventories) > 0 {
		return &v.Inventories[0]
	}
	return nil
}
