package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWalletAddress(t *testing.T) {
	assert.Equal(t, "0xabcdef1234", NormalizeWalletAddress("0xABCdef1234"))
	assert.Equal(t, "0xabc", NormalizeWalletAddress("  0xAbC  "))
	assert.Equal(t, "", NormalizeWalletAddress("   "))
}

func TestNewUserNormalizesWallet(t *testing.T) {
	u := NewUser("gov@example.com", "hash", "Gov", "somewhere", "0xABCDEF", RoleGovernment)
	assert.Equal(t, "0xabcdef", u.WalletAddress)
	assert.True(t, u.IsGovernment())
	assert.False(t, u.IsAgency())
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleGovernment.Valid())
	assert.True(t, RoleAgency.Valid())
	assert.False(t, UserRole("Admin").Valid())
	assert.False(t, UserRole("").Valid())
}
