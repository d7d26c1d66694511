package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"goldbot/internal/services"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"999", "999.00"},
		{"7205000", "7,205,000.00"},
		{"1234567.891", "1,234,567.89"},
		{"-4500", "-4,500.00"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := formatAmount(d); got != c.want {
			t.Errorf("formatAmount(%s) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestOverrideLabelMarksOrigin(t *testing.T) {
	item := overrideLabel("customerTax", services.ResolvedValue{Value: 0.10, Origin: services.OriginItem})
	if !strings.Contains(item, "★") || !strings.Contains(item, "10%") {
		t.Fatalf("item label %q", item)
	}
	inherited := overrideLabel("customerTax", services.ResolvedValue{Value: 0.05, Origin: services.OriginChannel})
	if strings.Contains(inherited, "★") || !strings.Contains(inherited, "5%") {
		t.Fatalf("channel label %q", inherited)
	}
}

func TestPricePopups(t *testing.T) {
	rp := services.ResolvedPricing{
		CustomerTax:           services.ResolvedValue{Value: 0.05},
		CustomerLaborFee:      services.ResolvedValue{Value: 0.19},
		CustomerSellingProfit: services.ResolvedValue{Value: 0.07},
		CollabTax:             services.ResolvedValue{Value: 0.05},
		CollabLaborFee:        services.ResolvedValue{Value: 0.16},
		CollabSellingProfit:   services.ResolvedValue{Value: 0.07},
	}
	q := services.Quote{
		Weight:        5.5,
		Spot:          1000000,
		Resolved:      rp,
		CustomerPrice: services.Price(5.5, 1000000, 0.05, 0.19, 0.07),
		CollabPrice:   services.Price(5.5, 1000000, 0.05, 0.16, 0.07),
		At:            time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}

	cust := pricePopupCustomer(q)
	if !strings.Contains(cust, "7,205,000.00") || !strings.Contains(cust, "5.5g") {
		t.Fatalf("customer popup:\n%s", cust)
	}
	if strings.Contains(cust, "7,040,000.00") {
		t.Fatal("customer popup leaks the collaborator price")
	}

	collab := pricePopupCollab(q)
	if !strings.Contains(collab, "7,040,000.00") || !strings.Contains(collab, "7,205,000.00") {
		t.Fatalf("collab popup:\n%s", collab)
	}
}

func TestPct(t *testing.T) {
	if pct(0.19) != 19 || pct(0.07) != 7 || pct(0) != 0 || pct(1) != 100 {
		t.Fatalf("pct: %d %d %d %d", pct(0.19), pct(0.07), pct(0), pct(1))
	}
}
