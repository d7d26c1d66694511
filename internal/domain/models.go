package domain

import "database/sql"

// PricingConfig holds the six channel-level markup percentages, each a
// fraction in [0,1]. One row per channel, created lazily with defaults.
type PricingConfig struct {
	ChannelID             string  `db:"channel_id"`
	CustomerTax           float64 `db:"customer_tax"`
	CustomerLaborFee      float64 `db:"customer_labor_fee"`
	CustomerSellingProfit float64 `db:"customer_selling_profit"`
	CollabTax             float64 `db:"collab_tax"`
	CollabLaborFee        float64 `db:"collab_labor_fee"`
	CollabSellingProfit   float64 `db:"collab_selling_profit"`
	CreatedAt             string  `db:"created_at"`
	UpdatedAt             string  `db:"updated_at"`
}

// Default markup fractions applied when a channel config row is first created.
const (
	DefaultCustomerTax           = 0.05
	DefaultCustomerLaborFee      = 0.19
	DefaultCustomerSellingProfit = 0.07
	DefaultCollabTax             = 0.05
	DefaultCollabLaborFee        = 0.16
	DefaultCollabSellingProfit   = 0.07
)

// PricingOverride is the per-set markup override. A NULL field means
// "inherit from the channel config".
type PricingOverride struct {
	CustomerTax           sql.NullFloat64 `db:"customer_tax"`
	CustomerLaborFee      sql.NullFloat64 `db:"customer_labor_fee"`
	CustomerSellingProfit sql.NullFloat64 `db:"customer_selling_profit"`
	CollabTax             sql.NullFloat64 `db:"collab_tax"`
	CollabLaborFee        sql.NullFloat64 `db:"collab_labor_fee"`
	CollabSellingProfit   sql.NullFloat64 `db:"collab_selling_profit"`
}

// GoldSet is a published item: immutable after finalize except for its
// pricing override fields.
type GoldSet struct {
	ID               int64   `db:"id"`
	ChannelID        string  `db:"channel_id"`
	ChannelMessageID int     `db:"channel_message_id"`
	Weight           float64 `db:"weight"`
	Caption          string  `db:"caption"`
	PricingOverride
	CreatedAt string `db:"created_at"`
}

// SpotSample is one cached upstream price observation. Never mutated;
// pruned to a bounded retention count. Unix-seconds timestamps.
type SpotSample struct {
	ID        int64   `db:"id"`
	Price     float64 `db:"price"`
	FetchedAt int64   `db:"fetched_at"`
	ExpiresAt int64   `db:"expires_at"`
}

type Admin struct {
	UserID    int64  `db:"user_id"`
	ChannelID string `db:"channel_id"`
	Username  string `db:"username"`
}

type Collaborator struct {
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	CreatedAt string `db:"created_at"`
}

// InviteToken registers a deep-link invite. Admin tokens are one-time and
// expiring; collaborator tokens are reusable.
type InviteToken struct {
	Token     string `db:"token"`
	Type      string `db:"type"` // collab | admin
	ChannelID string `db:"channel_id"`
	CreatedBy int64  `db:"created_by"`
	Used      bool   `db:"used"`
	ExpiresAt int64  `db:"expires_at"`
	CreatedAt string `db:"created_at"`
}

// SetViews is one row of the top-viewed report. Serialized as-is by the
// HTTP report endpoint.
type SetViews struct {
	SetID            int64  `db:"id" json:"set_id"`
	Caption          string `db:"caption" json:"caption"`
	ChannelID        string `db:"channel_id" json:"channel_id"`
	ChannelMessageID int    `db:"channel_message_id" json:"channel_message_id"`
	Views            int    `db:"views" json:"views"`
}
