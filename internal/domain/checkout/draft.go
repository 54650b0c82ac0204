package checkout

import (
	"fmt"

	"github.com/mobileshop/backend/internal/domain/cart"
	"github.com/mobileshop/backend/internal/domain/payment"
	"github.com/mobileshop/backend/internal/domain/shared"
	"github.com/mobileshop/backend/internal/domain/shared/valueobject"
	"github.com/mobileshop/backend/internal/domain/shipping"
)

// OrderItem is one line of an order request
type OrderItem struct {
	VariantID string            `json:"variantId"`
	ColorID   string            `json:"colorId"`
	Quantity  int64             `json:"quantity"`
	Price     valueobject.Money `json:"price"`    // original unit price, pre-discount
	Discount  valueobject.Money `json:"discount"` // current (discounted) unit price
}

// OrderDraft is the canonical order request for one submission attempt. It is
// transient: created for a single submission and discarded after the response,
// never persisted client-side.
type OrderDraft struct {
	TotalAmount    valueobject.Money `json:"totalAmount"`
	DiscountAmount valueobject.Money `json:"discountAmount"`
	ShippingFee    valueobject.Money `json:"shippingFee"`
	FinalAmount    valueobject.Money `json:"finalAmount"`
	RecipientName  string            `json:"recipientName"`
	RecipientPhone string            `json:"recipientPhone"`
	Street         string            `json:"street"`
	CommuneID      string            `json:"communeId"`
	ProvinceID     string            `json:"provinceId"`
	PostalCode     string            `json:"postalCode,omitempty"`
	Items          []OrderItem       `json:"items"`
	PaymentMethod  payment.Method    `json:"paymentMethod"`
	// ColorCoerced flags that at least one item color was filled from the
	// assembly sentinel instead of a resolved source
	ColorCoerced bool `json:"-"`
}

// AssembleOptions tunes order assembly
type AssembleOptions struct {
	// ColorFallback, when non-empty, is substituted for an unresolved line
	// color as a last resort. The resulting draft is flagged via ColorCoerced.
	// When empty, an unresolved color rejects assembly.
	ColorFallback string
}

// Assemble computes totals from the selected subset and the resolved fee,
// validates required fields and numeric invariants, and builds the canonical
// order request. Validation failures are collected, not short-circuited, so
// the caller can present a complete list. No network call is issued here.
func Assemble(selected []cart.CartLine, addr *Address, quote shipping.Quote, method payment.Method, opts AssembleOptions) (*OrderDraft, shared.ValidationErrors) {
	var errs shared.ValidationErrors

	if len(selected) == 0 {
		errs = append(errs, shared.NewValidationError("items", "EMPTY_SELECTION", "Chưa chọn sản phẩm nào để đặt hàng"))
	}

	switch {
	case quote.HasFee():
		// usable
	case quote.IsFailed():
		errs = append(errs, shared.NewValidationError("shippingFee", "QUOTE_FAILED", quote.ErrorMessage))
	default:
		errs = append(errs, shared.NewValidationError("shippingFee", "QUOTE_UNRESOLVED", "Phí vận chuyển chưa được xác định"))
	}

	if addr == nil {
		errs = append(errs, shared.NewValidationError("address", "ADDRESS_MISSING", "Chưa chọn địa chỉ giao hàng"))
	} else {
		for _, field := range addr.blankFields() {
			errs = append(errs, shared.NewValidationError(field, "FIELD_BLANK", fmt.Sprintf("Trường %s không được để trống", field)))
		}
	}

	if !method.Code.IsValid() {
		errs = append(errs, shared.NewValidationError("paymentMethod", "METHOD_UNKNOWN", "Phương thức thanh toán không hợp lệ"))
	}

	total := valueobject.ZeroVND()
	discount := valueobject.ZeroVND()
	coerced := false
	items := make([]OrderItem, 0, len(selected))

	for i := range selected {
		line := &selected[i]
		colorID := line.ColorID
		if colorID == "" {
			if opts.ColorFallback == "" {
				errs = append(errs, shared.NewValidationError(
					fmt.Sprintf("items[%d].colorId", i), "COLOR_UNKNOWN",
					fmt.Sprintf("Sản phẩm %s chưa xác định được màu", line.ProductVariantID)))
				continue
			}
			colorID = opts.ColorFallback
			coerced = true
		}

		price := line.UnitPrice
		discounted := line.UnitDiscountedPrice
		items = append(items, OrderItem{
			VariantID: line.ProductVariantID,
			ColorID:   colorID,
			Quantity:  line.Quantity,
			Price:     price,
			Discount:  discounted,
		})

		total = total.MustAdd(price.MultiplyByInt(line.Quantity))
		perUnitOff := price.MustSubtract(discounted)
		discount = discount.MustAdd(perUnitOff.MultiplyByInt(line.Quantity))
	}

	if errs.HasErrors() {
		return nil, errs
	}

	final := total.MustSubtract(discount).MustAdd(quote.Fee)

	draft := &OrderDraft{
		TotalAmount:    total,
		DiscountAmount: discount,
		ShippingFee:    quote.Fee,
		FinalAmount:    final,
		RecipientName:  addr.RecipientName,
		RecipientPhone: addr.RecipientPhone,
		Street:         addr.Street,
		CommuneID:      addr.CommuneID,
		ProvinceID:     addr.ProvinceID,
		PostalCode:     addr.PostalCode,
		Items:          items,
		PaymentMethod:  method,
		ColorCoerced:   coerced,
	}

	if verrs := draft.validateAmounts(); verrs.HasErrors() {
		return nil, verrs
	}

	return draft, nil
}

// validateAmounts re-derives every total from the items and compares exactly.
// Amounts are whole-VND integers, so equality is integer comparison with no
// floating drift.
func (d *OrderDraft) validateAmounts() shared.ValidationErrors {
	var errs shared.ValidationErrors

	total := valueobject.ZeroVND()
	discount := valueobject.ZeroVND()
	for i := range d.Items {
		item := &d.Items[i]
		total = total.MustAdd(item.Price.MultiplyByInt(item.Quantity))
		discount = discount.MustAdd(item.Price.MustSubtract(item.Discount).MultiplyByInt(item.Quantity))
	}

	if !d.TotalAmount.Equals(total) {
		errs = append(errs, shared.NewValidationError("totalAmount", "AMOUNT_MISMATCH", "Tổng tiền hàng không khớp với chi tiết đơn"))
	}
	if !d.DiscountAmount.Equals(discount) {
		errs = append(errs, shared.NewValidationError("discountAmount", "AMOUNT_MISMATCH", "Tiền giảm giá không khớp với chi tiết đơn"))
	}

	expected := d.TotalAmount.MustSubtract(d.DiscountAmount).MustAdd(d.ShippingFee)
	if !d.FinalAmount.Equals(expected) {
		errs = append(errs, shared.NewValidationError("finalAmount", "AMOUNT_MISMATCH", "Số tiền thanh toán không khớp"))
	}
	if d.FinalAmount.IsNegative() {
		errs = append(errs, shared.NewValidationError("finalAmount", "AMOUNT_NEGATIVE", "Số tiền thanh toán không hợp lệ"))
	}

	return errs
}

// ItemCount returns the number of items in the draft
func (d *OrderDraft) ItemCount() int {
	return len(d.Items)
}

// LineIDsCovered returns the variant ids covered by this draft
func (d *OrderDraft) LineIDsCovered() []string {
	ids := make([]string, len(d.Items))
	for i := range d.Items {
		ids[i] = d.Items[i].VariantID
	}
	return ids
}
