package repos

import (
	"database/sql"
	"fmt"

	"goldbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ConfigRepo struct{ db *sqlx.DB }

func NewConfigRepo(db *sqlx.DB) *ConfigRepo { return &ConfigRepo{db: db} }

// GetOrCreate returns the channel's pricing config, inserting the hard
// defaults on first access.
func (r *ConfigRepo) GetOrCreate(channelID string) (domain.PricingConfig, error) {
	cfg, err := r.get(channelID)
	if err == nil {
		return cfg, nil
	}
	if err != sql.ErrNoRows {
		return domain.PricingConfig{}, err
	}

	_, err = r.db.Exec(`
	  INSERT INTO channel_configs(
	    channel_id, customer_tax, customer_labor_fee, customer_selling_profit,
	    collab_tax, collab_labor_fee, collab_selling_profit
	  ) VALUES (?,?,?,?,?,?,?)
	  ON CONFLICT(channel_id) DO NOTHING
	`, channelID,
		domain.DefaultCustomerTax, domain.DefaultCustomerLaborFee, domain.DefaultCustomerSellingProfit,
		domain.DefaultCollabTax, domain.DefaultCollabLaborFee, domain.DefaultCollabSellingProfit)
	if err != nil {
		return domain.PricingConfig{}, err
	}
	return r.get(channelID)
}

func (r *ConfigRepo) get(channelID string) (domain.PricingConfig, error) {
	var cfg domain.PricingConfig
	err := r.db.Get(&cfg, `
	  SELECT channel_id, customer_tax, customer_labor_fee, customer_selling_profit,
	         collab_tax, collab_labor_fee, collab_selling_profit,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM channel_configs WHERE channel_id = ?
	`, channelID)
	return cfg, err
}

// configColumns maps override/config field names to their columns. Keyed by
// the field names carried in button payloads and command arguments.
var configColumns = map[string]string{
	"customerTax":           "customer_tax",
	"customerLaborFee":      "customer_labor_fee",
	"customerSellingProfit": "customer_selling_profit",
	"collabTax":             "collab_tax",
	"collabLaborFee":        "collab_labor_fee",
	"collabSellingProfit":   "collab_selling_profit",
}

// UpdateField sets one channel-level percentage (a fraction in [0,1]).
// The config row is created first if missing.
func (r *ConfigRepo) UpdateField(channelID, field string, value float64) error {
	col, ok := configColumns[field]
	if !ok {
		return fmt.Errorf("unknown pricing field %q", field)
	}
	if _, err := r.GetOrCreate(channelID); err != nil {
		return err
	}
	_, err := r.db.Exec(
		`UPDATE channel_configs SET `+col+` = ?, updated_at = CURRENT_TIMESTAMP WHERE channel_id = ?`,
		value, channelID)
	return err
}
