package repos

import (
	"fmt"
	"time"

	"goldbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

type GoldSetRepo struct{ db *sqlx.DB }

func NewGoldSetRepo(db *sqlx.DB) *GoldSetRepo { return &GoldSetRepo{db: db} }

const goldSetCols = `
  id, channel_id, channel_message_id, weight, caption,
  customer_tax, customer_labor_fee, customer_selling_profit,
  collab_tax, collab_labor_fee, collab_selling_profit,
  created_at`

func (r *GoldSetRepo) Create(channelID string, channelMessageID int, weight float64, caption string) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO gold_sets(channel_id, channel_message_id, weight, caption)
	  VALUES (?,?,?,?)
	`, channelID, channelMessageID, weight, caption)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *GoldSetRepo) Get(id int64) (domain.GoldSet, error) {
	var s domain.GoldSet
	err := r.db.Get(&s, `SELECT`+goldSetCols+` FROM gold_sets WHERE id = ?`, id)
	return s, err
}

// ByMessage looks a set up by its channel-native message identity, used when
// an operator forwards a published post back to the bot.
func (r *GoldSetRepo) ByMessage(channelID string, messageID int) (domain.GoldSet, error) {
	var s domain.GoldSet
	err := r.db.Get(&s, `
	  SELECT`+goldSetCols+` FROM gold_sets
	  WHERE channel_id = ? AND channel_message_id = ?
	`, channelID, messageID)
	return s, err
}

// UpdateOverrideField sets one set-level override percentage.
func (r *GoldSetRepo) UpdateOverrideField(id int64, field string, value float64) error {
	col, ok := configColumns[field]
	if !ok {
		return fmt.Errorf("unknown pricing field %q", field)
	}
	_, err := r.db.Exec(`UPDATE gold_sets SET `+col+` = ? WHERE id = ?`, value, id)
	return err
}

// ResetOverrides nulls all six override fields in one statement.
func (r *GoldSetRepo) ResetOverrides(id int64) error {
	_, err := r.db.Exec(`
	  UPDATE gold_sets SET
	    customer_tax = NULL, customer_labor_fee = NULL, customer_selling_profit = NULL,
	    collab_tax = NULL, collab_labor_fee = NULL, collab_selling_profit = NULL
	  WHERE id = ?
	`, id)
	return err
}

// LogPriceCheck records one on-demand pricing view of a published set.
func (r *GoldSetRepo) LogPriceCheck(userID, setID int64, at time.Time) error {
	_, err := r.db.Exec(`
	  INSERT INTO price_checks(user_id, gold_set_id, checked_at) VALUES (?,?,?)
	`, userID, setID, at.Unix())
	return err
}

// TopViewed returns the channel's most viewed sets within [from, to].
func (r *GoldSetRepo) TopViewed(channelID string, from, to time.Time, limit int) ([]domain.SetViews, error) {
	var out []domain.SetViews
	err := r.db.Select(&out, `
	  SELECT g.id, g.caption, g.channel_id, g.channel_message_id, COUNT(p.id) AS views
	  FROM gold_sets g
	  JOIN price_checks p ON p.gold_set_id = g.id
	  WHERE g.channel_id = ? AND p.checked_at BETWEEN ? AND ?
	  GROUP BY g.id
	  ORDER BY views DESC, g.id DESC
	  LIMIT ?
	`, channelID, from.Unix(), to.Unix(), limit)
	return out, err
}
