package enums

import "fmt"

// AuditEventType labels entries in the append-only audit log.
type AuditEventType string

const (
	AuditEventUserRegister AuditEventType = "user_register"
	AuditEventUserLogin    AuditEventType = "user_login"
	AuditEventUserLogout   AuditEventType = "user_logout"
	AuditEventBookAdd      AuditEventType = "book_add"
	AuditEventBookShow     AuditEventType = "book_show"
	AuditEventBookHide     AuditEventType = "book_hide"
	AuditEventOrderPlace   AuditEventType = "order_place"
)

var validAuditEventTypes = []AuditEventType{
	AuditEventUserRegister,
	AuditEventUserLogin,
	AuditEventUserLogout,
	AuditEventBookAdd,
	AuditEventBookShow,
	AuditEventBookHide,
	AuditEventOrderPlace,
}

// String implements fmt.Stringer.
func (a AuditEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditEventType.
func (a AuditEventType) IsValid() bool {
	for _, candidate := range validAuditEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditEventType converts raw input into an AuditEventType.
func ParseAuditEventType(value string) (AuditEventType, error) {
	for _, candidate := range validAuditEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit event type %q", value)
}
