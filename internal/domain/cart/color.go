package cart

import (
	"strconv"

	"github.com/mobileshop/backend/internal/domain/catalog"
)

// LineDetail carries the raw, possibly-incomplete color information attached
// to a remote cart line. The remote read path has been observed to omit color
// fields it accepted on write, so every field here is optional.
type LineDetail struct {
	ColorID    string                   `json:"colorId,omitempty"`
	Color      *catalog.ColorRef        `json:"color,omitempty"`
	ColorValue *int64                   `json:"colorValue,omitempty"`
	Inventory  *catalog.InventoryRecord `json:"inventory,omitempty"`
}

// SideMapLookup resolves a line id against the persisted color side-mapping.
// It returns the empty string on a miss.
type SideMapLookup func(lineID string) string

// colorLookup is one source in the fallback chain. Each lookup is pure: it
// inspects its source and returns the color id or the empty string.
type colorLookup struct {
	name string
	fn   func(lineID string, detail *LineDetail, sideMap SideMapLookup) string
}

// ColorResolver fills a missing per-line color identifier using an ordered
// fallback chain; the first source with a value wins. A total miss yields the
// empty string, which callers must surface as "unknown" rather than coerce to
// a default color.
type ColorResolver struct {
	chain []colorLookup
}

// NewColorResolver creates a resolver with the standard six-source chain
func NewColorResolver() *ColorResolver {
	return &ColorResolver{
		chain: []colorLookup{
			{"direct_field", lookupDirectField},
			{"color_object", lookupColorObject},
			{"numeric_value", lookupNumericValue},
			{"inventory_field", lookupInventoryField},
			{"inventory_object", lookupInventoryObject},
			{"side_map", lookupSideMap},
		},
	}
}

// Resolve walks the chain and returns the first color id found, along with
// the name of the source that produced it. Both are empty on a total miss.
func (r *ColorResolver) Resolve(lineID string, detail *LineDetail, sideMap SideMapLookup) (colorID, source string) {
	if detail == nil {
		detail = &LineDetail{}
	}
	for _, lookup := range r.chain {
		if id := lookup.fn(lineID, detail, sideMap); id != "" {
			return id, lookup.name
		}
	}
	return "", ""
}

func lookupDirectField(_ string, detail *LineDetail, _ SideMapLookup) string {
	return detail.ColorID
}

func lookupColorObject(_ string, detail *LineDetail, _ SideMapLookup) string {
	if detail.Color == nil {
		return ""
	}
	return detail.Color.ID
}

func lookupNumericValue(_ string, detail *LineDetail, _ SideMapLookup) string {
	if detail.ColorValue == nil {
		return ""
	}
	return strconv.FormatInt(*detail.ColorValue, 10)
}

func lookupInventoryField(_ string, detail *LineDetail, _ SideMapLookup) string {
	if detail.Inventory == nil {
		return ""
	}
	return detail.Inventory.ColorID
}

func lookupInventoryObject(_ string, detail *LineDetail, _ SideMapLookup) string {
	if detail.Inventory == nil || detail.Inventory.Color == nil {
		return ""
	}
	return detail.Inventory.Color.ID
}

func lookupSideMap(lineID string, _ *LineDetail, sideMap SideMapLookup) string {
	if sideMap == nil {
		return ""
	}
	return sideMap(lineID)
}

// DetailFromVariant builds a LineDetail from a catalog variant snapshot, used
// when rebuilding cached lines without a remote cart payload.
func DetailFromVariant(v *catalog.VariantSnapshot) *LineDetail {
	if v == nil {
		return &LineDetail{}
	}
	return &LineDetail{
		ColorID:    v.ColorID,
		Color:      v.Color,
		ColorValue: v.ColorValue,
		Inventory:  v.FirstInventory(),
	}
}
