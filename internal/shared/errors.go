package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage maps an internal error to a message safe to render to
// end users. Anything unrecognised collapses to a generic message so
// database and driver errors never leak into pages.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "السجل المطلوب غير موجود"
	case errors.Is(err, ErrInvalidCredentials):
		return "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	case errors.Is(err, ErrCSRFTokenMissing), errors.Is(err, ErrCSRFTokenMismatch):
		return "انتهت صلاحية الجلسة، أعد تحميل الصفحة"
	default:
		return "حدث خطأ غير متوقع، حاول مرة أخرى لاحقاً"
	}
}
