package payment

// Messages shown for vnp_ResponseCode values.
var responseMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công. Giao dịch bị nghi ngờ (liên quan tới lừa đảo, giao dịch bất thường)",
	"09": "Thẻ/Tài khoản của khách hàng chưa đăng ký dịch vụ InternetBanking tại ngân hàng",
	"10": "Khách hàng xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Đã hết hạn chờ thanh toán. Xin quý khách vui lòng thực hiện lại giao dịch",
	"12": "Thẻ/Tài khoản của khách hàng bị khóa",
	"13": "Quý khách nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Giao dịch bị hủy",
	"51": "Tài khoản của quý khách không đủ số dư để thực hiện giao dịch",
	"65": "Tài khoản của quý khách đã vượt quá hạn mức giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Quý khách nhập sai mật khẩu thanh toán quá số lần quy định",
	"99": "Lỗi không xác định",
}

const (
	// MessageFailedDefault is shown for unknown or missing response codes.
	MessageFailedDefault = "Thanh toán không thành công"
	// MessageError is shown when the backend could not be asked.
	MessageError = "Có lỗi xảy ra khi xác thực thanh toán"
)

// MessageFor returns the customer-facing message for a gateway response
// code, falling back to MessageFailedDefault.
func MessageFor(code string) string {
	if m, ok := responseMessages[code]; ok {
		return m
	}
	return MessageFailedDefault
}
