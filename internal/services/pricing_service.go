package services

import (
	"database/sql"
	"time"

	"goldbot/internal/domain"
	"goldbot/internal/repos"

	"github.com/shopspring/decimal"
)

// Origin tags where a resolved percentage came from.
type Origin string

const (
	OriginItem    Origin = "item"
	OriginChannel Origin = "channel"
)

type ResolvedValue struct {
	Value  float64
	Origin Origin
}

// ResolvedPricing carries the six effective percentages for one set (or for
// pure channel defaults when no set is involved).
type ResolvedPricing struct {
	CustomerTax           ResolvedValue
	CustomerLaborFee      ResolvedValue
	CustomerSellingProfit ResolvedValue
	CollabTax             ResolvedValue
	CollabLaborFee        ResolvedValue
	CollabSellingProfit   ResolvedValue
}

// Field returns a resolved value by its payload field name.
func (rp ResolvedPricing) Field(name string) ResolvedValue {
	switch name {
	case "customerTax":
		return rp.CustomerTax
	case "customerLaborFee":
		return rp.CustomerLaborFee
	case "customerSellingProfit":
		return rp.CustomerSellingProfit
	case "collabTax":
		return rp.CollabTax
	case "collabLaborFee":
		return rp.CollabLaborFee
	case "collabSellingProfit":
		return rp.CollabSellingProfit
	}
	return ResolvedValue{}
}

// Resolve computes the effective percentages: for each field independently
// the item-level value wins when present, else the channel value. A nil
// override degenerates to pure channel defaults. Read-only and pure.
func Resolve(ov *domain.PricingOverride, cfg domain.PricingConfig) ResolvedPricing {
	pick := func(item sql.NullFloat64, channel float64) ResolvedValue {
		if ov != nil && item.Valid {
			return ResolvedValue{Value: item.Float64, Origin: OriginItem}
		}
		return ResolvedValue{Value: channel, Origin: OriginChannel}
	}
	var o domain.PricingOverride
	if ov != nil {
		o = *ov
	}
	return ResolvedPricing{
		CustomerTax:           pick(o.CustomerTax, cfg.CustomerTax),
		CustomerLaborFee:      pick(o.CustomerLaborFee, cfg.CustomerLaborFee),
		CustomerSellingProfit: pick(o.CustomerSellingProfit, cfg.CustomerSellingProfit),
		CollabTax:             pick(o.CollabTax, cfg.CollabTax),
		CollabLaborFee:        pick(o.CollabLaborFee, cfg.CollabLaborFee),
		CollabSellingProfit:   pick(o.CollabSellingProfit, cfg.CollabSellingProfit),
	}
}

// Price computes weight * spot * (1 + tax + fee + profit) in decimal so
// currency display never drifts. Rounding is left to formatting.
func Price(weight, spot, tax, fee, profit float64) decimal.Decimal {
	w := decimal.NewFromFloat(weight)
	s := decimal.NewFromFloat(spot)
	markup := decimal.NewFromInt(1).
		Add(decimal.NewFromFloat(tax)).
		Add(decimal.NewFromFloat(fee)).
		Add(decimal.NewFromFloat(profit))
	return w.Mul(s).Mul(markup)
}

// Quote is one priced rendering of a set or draft: both viewer classes are
// computed independently, never derived from one another.
type Quote struct {
	Weight        float64
	Spot          float64
	Resolved      ResolvedPricing
	CustomerPrice decimal.Decimal
	CollabPrice   decimal.Decimal
	At            time.Time
}

type PricingService struct {
	Configs *repos.ConfigRepo
}

func NewPricingService(configs *repos.ConfigRepo) *PricingService {
	return &PricingService{Configs: configs}
}

// ResolveChannel resolves pure channel defaults (live preview, /viewpricing).
func (s *PricingService) ResolveChannel(channelID string) (ResolvedPricing, error) {
	cfg, err := s.Configs.GetOrCreate(channelID)
	if err != nil {
		return ResolvedPricing{}, err
	}
	return Resolve(nil, cfg), nil
}

// ResolveForSet layers a published set's overrides over its channel config.
func (s *PricingService) ResolveForSet(set domain.GoldSet) (ResolvedPricing, error) {
	cfg, err := s.Configs.GetOrCreate(set.ChannelID)
	if err != nil {
		return ResolvedPricing{}, err
	}
	return Resolve(&set.PricingOverride, cfg), nil
}

// QuoteAt prices a weight for both viewer classes against a spot price.
func (s *PricingService) QuoteAt(weight, spot float64, rp ResolvedPricing, at time.Time) Quote {
	return Quote{
		Weight:        weight,
		Spot:          spot,
		Resolved:      rp,
		CustomerPrice: Price(weight, spot, rp.CustomerTax.Value, rp.CustomerLaborFee.Value, rp.CustomerSellingProfit.Value),
		CollabPrice:   Price(weight, spot, rp.CollabTax.Value, rp.CollabLaborFee.Value, rp.CollabSellingProfit.Value),
		At:            at,
	}
}
