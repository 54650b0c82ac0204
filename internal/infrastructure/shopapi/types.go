package shopapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mobileshop/backend/internal/domain/catalog"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
)

// flexID accepts identifiers the collaborators type inconsistently: some
// endpoints return numeric ids, some the same ids as strings.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	*f = flexID(n)
	return nil
}

type colorDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type inventoryDTO struct {
	ColorID  string    `json:"colorId"`
	Color    *colorDTO `json:"color"`
	Quantity int64     `json:"quantity"`
}

type variantDTO struct {
	ID              string         `json:"id"`
	ProductID       string         `json:"productId"`
	Name            string         `json:"name"`
	Price           int64          `json:"price"`
	DiscountedPrice int64          `json:"discountedPrice"`
	ColorID         string         `json:"colorId"`
	Color           *colorDTO      `json:"color"`
	ColorValue      *int64         `json:"colorValue"`
	Inventory       *inventoryDTO  `json:"inventory"`
	Inventories     []inventoryDTO `json:"inventories"`
}

func (d *colorDTO) toDomain() *catalog.ColorRef {
	if d == nil {
		return nil
	}
	return &catalog.ColorRef{ID: d.ID, Name: d.Name, Code: d.Code}
}

func (d *inventoryDTO) toDomain() *catalog.InventoryRecord {
	if d == nil {
		return nil
	}
	return &catalog.InventoryRecord{
		ColorID:  d.ColorID,
		Color:    d.Color.toDomain(),
		Quantity: d.Quantity,
	}
}

func (d *variantDTO) toDomain() catalog.VariantSnapshot {
	v := catalog.VariantSnapshot{
		VariantID:       d.ID,
		ProductID:       d.ProductID,
		Name:            d.Name,
		Price:           valueobject.NewVND(d.Price),
		DiscountedPrice: valueobject.NewVND(d.DiscountedPrice),
		ColorID:         d.ColorID,
		Color:           d.Color.toDomain(),
		ColorValue:      d.ColorValue,
		Inventory:       d.Inventory.toDomain(),
	}
	if len(d.Inventories) > 0 {
		v.Inventories = make([]catalog.InventoryRecord, 0, len(d.Inventories))
		for i := range d.Inventories {
			v.Inventories = append(v.Inventories, *d.Inventories[i].toDomain())
		}
	}
	return v
}

// decodeVariant is shared by the cart and catalog clients
func decodeVariant(raw json.RawMessage) (catalog.VariantSnapshot, error) {
	var dto variantDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return catalog.VariantSnapshot{}, err
	}
	return dto.toDomain(), nil
}
