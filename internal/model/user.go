package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RewardTier classifies a customer by cumulative lifetime spend.
type RewardTier string

const (
	RewardTierBronze   RewardTier = "bronze"
	RewardTierSilver   RewardTier = "silver"
	RewardTierGold     RewardTier = "gold"
	RewardTierPlatinum RewardTier = "platinum"
	RewardTierDiamond  RewardTier = "diamond"
)

// Tier thresholds in kobo.
const (
	tierSilverMin   = 50_000 * 100
	tierGoldMin     = 100_000 * 100
	tierPlatinumMin = 500_000 * 100
	tierDiamondMin  = 1_000_000 * 100
)

// TierFor returns the reward tier for a cumulative spend in kobo.
// A pure step function; tiers are always recomputed, never stored.
func TierFor(totalPurchases int64) RewardTier {
	switch {
	case totalPurchases >= tierDiamondMin:
		return RewardTierDiamond
	case totalPurchases >= tierPlatinumMin:
		return RewardTierPlatinum
	case totalPurchases >= tierGoldMin:
		return RewardTierGold
	case totalPurchases >= tierSilverMin:
		return RewardTierSilver
	default:
		return RewardTierBronze
	}
}

// User represents a registered customer or administrator.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	TotalPurchases int64     `json:"totalPurchases"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Tier returns the user's current reward tier.
func (u *User) Tier() RewardTier {
	return TierFor(u.TotalPurchases)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthUser is the authenticated identity carried in a request context.
type AuthUser struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the authenticated caller holds the admin role.
func (a *AuthUser) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// RegisterRequest is the payload for creating a user account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token and user profile.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
