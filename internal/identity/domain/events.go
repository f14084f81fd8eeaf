package domain

import "time"

const (
	// UserRegisteredEventType 账户注册事件主题
	UserRegisteredEventType = "attestation.user.registered"
)

// UserRegisteredEvent 账户注册事件
type UserRegisteredEvent struct {
	UserID        uint      `json:"user_id"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"wallet_address"`
	Role          UserRole  `json:"role"`
	OccurredOn    time.Time `json:"occurred_on"`
}
