package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mobileshop/backend/internal/domain/payment"
)

// paymentURLTTL is how long a generated payment URL stays payable
const paymentURLTTL = 15 * time.Minute

// VNPayAdapter implements the redirect-gateway contract for VNPay. Payment
// outcomes are never returned by the gateway API directly; they arrive as a
// return URL the adapter classifies after the fact.
type VNPayAdapter struct {
	config *VNPayConfig
	// now is swappable for deterministic URL generation in tests
	now func() time.Time
}

// NewVNPayAdapter creates a VNPay adapter with the given configuration
func NewVNPayAdapter(config *VNPayConfig) (*VNPayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &VNPayAdapter{
		config: config,
		now:    time.Now,
	}, nil
}

// gmt7 is the gateway's fixed timestamp zone
var gmt7 = time.FixedZone("ICT", 7*60*60)

// CreatePaymentURL builds the signed redirect URL for one order. The amount is
// whole VND; the gateway wire format carries it multiplied by 100.
func (a *VNPayAdapter) CreatePaymentURL(_ context.Context, req payment.InitiationRequest) (string, error) {
	if req.OrderID == "" {
		return "", errors.New("vnpay: missing order id")
	}
	if !req.Amount.IsPositive() {
		return "", errors.New("vnpay: amount must be positive")
	}
	if strings.Contains(req.OrderID, vnpTxnRefSeparator) {
		// The return URL parser takes the prefix before the first separator
		return "", fmt.Errorf("vnpay: order id must not contain %q", vnpTxnRefSeparator)
	}

	createdAt := a.now().In(gmt7)
	createDate := createdAt.Format(vnpTimeLayout)
	txnRef := req.OrderID + vnpTxnRefSeparator + createDate

	orderInfo := req.OrderInfo
	if orderInfo == "" {
		orderInfo = "Thanh toan don hang " + req.OrderID
	}

	params := map[string]string{
		"vnp_Version":    vnpVersion,
		"vnp_Command":    vnpCommand,
		"vnp_TmnCode":    a.config.TMNCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount.Int64()*100, 10),
		"vnp_CurrCode":   vnpCurrCode,
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     a.config.Locale,
		"vnp_ReturnUrl":  a.config.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": createDate,
		"vnp_ExpireDate": createdAt.Add(paymentURLTTL).Format(vnpTimeLayout),
	}

	signData := buildSignData(params)
	secureHash := a.sign(signData)

	return a.config.PayURL + "?" + signData + "&" + paramSecureHash + "=" + secureHash, nil
}

// ParseReturnURL decodes a redirect URL into a callback result. A URL with no
// vnp_-prefixed query parameters is not a callback and yields nil; the payment
// surface navigates through plenty of URLs that are not the gateway's answer.
func (a *VNPayAdapter) ParseReturnURL(rawURL string) (*payment.CallbackResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("vnpay: invalid return URL: %w", err)
	}

	values := u.Query()
	if !hasGatewayParams(values) {
		return nil, nil
	}

	respCode := values.Get(paramResponseCode)
	txnStatus := values.Get(paramTransactionStatus)

	// Success requires BOTH codes at the approved value. Partial presence of
	// only one code is a failure, not a success.
	success := respCode == vnpApprovedCode && txnStatus == vnpApprovedCode

	reasonCode := respCode
	if reasonCode == "" {
		reasonCode = txnStatus
	}

	result := &payment.CallbackResult{
		Success:    success,
		OrderID:    orderIDFromTxnRef(values.Get(paramTxnRef)),
		ReasonCode: reasonCode,
	}
	if reasonCode != "" {
		result.Reason = reasonForCode(reasonCode)
	} else {
		result.Reason = "Không nhận được mã phản hồi từ cổng thanh toán"
	}
	return result, nil
}

// VerifySecureHash checks the vnp_SecureHash of a return URL's query against
// the merchant secret. Classification does not depend on it; callers that
// trust only signed callbacks check it separately.
func (a *VNPayAdapter) VerifySecureHash(rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("vnpay: invalid return URL: %w", err)
	}

	values := u.Query()
	received := values.Get(paramSecureHash)
	if received == "" {
		return false, nil
	}
	values.Del(paramSecureHash)
	values.Del(paramSecureHashType)

	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}

	expected := a.sign(buildSignData(params))
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)), nil
}

// sign computes the hex HMAC-SHA512 of the sign data
func (a *VNPayAdapter) sign(signData string) string {
	mac := hmac.New(sha512.New, []byte(a.config.HashSecret))
	mac.Write([]byte(signData))
	return hex.EncodeToString(mac.Sum(nil))
}

// buildSignData sorts the parameters by key and joins them as URL-encoded
// key=value pairs. Empty values are excluded from signing.
func buildSignData(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if params[key] != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+url.QueryEscape(params[key]))
	}
	return strings.Join(parts, "&")
}

// hasGatewayParams reports whether any vnp_-prefixed parameter is present
func hasGatewayParams(values url.Values) bool {
	for key := range values {
		if strings.HasPrefix(key, "vnp_") {
			return true
		}
	}
	return false
}

// orderIDFromTxnRef extracts the order identifier from the compound
// transaction reference: the substring before the first separator.
func orderIDFromTxnRef(txnRef string) string {
	if txnRef == "" {
		return ""
	}
	if idx := strings.Index(txnRef, vnpTxnRefSeparator); idx >= 0 {
		return txnRef[:idx]
	}
	return txnRef
}

var _ payment.Gateway = (*VNPayAdapter)(nil)
