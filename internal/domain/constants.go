package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Order lifecycle. The linear path applies to physical goods; digital-only
// orders stop at CONFIRMED.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
	OrderRefunded  = "REFUNDED"
)

const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
	PaymentCancelled  = "CANCELLED"
	PaymentRefunded   = "REFUNDED"
)

// License keys are created SUSPENDED and only become ACTIVE once the order
// is paid. A refund revokes them.
const (
	LicenseSuspended = "SUSPENDED"
	LicenseActive    = "ACTIVE"
	LicenseExpired   = "EXPIRED"
	LicenseRevoked   = "REVOKED"
)

const (
	PrizeDiscountFixed   = "DISCOUNT_FIXED"
	PrizeDiscountPercent = "DISCOUNT_PERCENT"
	PrizeCashback        = "CASHBACK"
	PrizeFreeShipping    = "FREE_SHIPPING"
	PrizeNone            = "NO_PRIZE"
)

const (
	DiscountTypeFixed        = "FIXED"
	DiscountTypePercent      = "PERCENT"
	DiscountTypeCashback     = "CASHBACK"
	DiscountTypeFreeShipping = "FREE_SHIPPING"
)

// Gateway event types as delivered on the payment webhook.
const (
	PaymentEventCompleted = "completed"
	PaymentEventExpired   = "expired"
	PaymentEventFailed    = "failed"
	PaymentEventRefunded  = "refunded"
)
