package payment

import "fmt"

// VNPay protocol constants
const (
	vnpVersion  = "2.1.0"
	vnpCommand  = "pay"
	vnpCurrCode = "VND"
	// vnpApprovedCode is the gateway's defined "approved" value; both the
	// response code and the transaction status must equal it for success
	vnpApprovedCode = "00"
	// vnpTimeLayout is the gateway's timestamp format (GMT+7)
	vnpTimeLayout = "20060102150405"
	// vnpTxnRefSeparator joins the order id and a timestamp into the compound
	// transaction reference; the callback parser takes the prefix before the
	// first occurrence
	vnpTxnRefSeparator = "_"
)

// VNPay return URL parameter names
const (
	paramSecureHash        = "vnp_SecureHash"
	paramSecureHashType    = "vnp_SecureHashType"
	paramResponseCode      = "vnp_ResponseCode"
	paramTransactionStatus = "vnp_TransactionStatus"
	paramTxnRef            = "vnp_TxnRef"
)

// vnpResponseReasons maps the gateway's documented response codes to
// human-readable reasons.
var vnpResponseReasons = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công, giao dịch bị nghi ngờ gian lận",
	"09": "Thẻ/Tài khoản chưa đăng ký dịch vụ InternetBanking",
	"10": "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Đã hết hạn chờ thanh toán",
	"12": "Thẻ/Tài khoản bị khóa",
	"13": "Nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Khách hàng hủy giao dịch",
	"51": "Tài khoản không đủ số dư để thực hiện giao dịch",
	"65": "Tài khoản đã vượt quá hạn mức giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Nhập sai mật khẩu thanh toán quá số lần quy định",
	"99": "Lỗi không xác định",
}

// reasonForCode returns the documented reason for a response code. Unknown
// codes keep the raw code visible rather than collapsing into a generic
// message, to preserve diagnosability.
func reasonForCode(code string) string {
	if reason, ok := vnpResponseReasons[code]; ok {
		return reason
	}
	return fmt.Sprintf("Mã lỗi: %s", code)
}
