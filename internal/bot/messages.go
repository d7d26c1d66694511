package bot

import (
	"fmt"
	"strings"

	"goldbot/internal/services"

	"github.com/shopspring/decimal"
)

// User-facing copy. Kept in one place so the handlers stay readable.
const (
	msgWelcome       = "Welcome! Ask the channel operator for an invite link to see collaborator prices."
	msgWelcomeAdmin  = "Welcome back, operator. Send a photo to start a new set."
	msgWelcomeCollab = "Welcome! You now see collaborator prices on channel posts."

	msgPhotoReceived   = "Photo received. Send a caption for this set."
	msgCaptionReceived = "Caption saved. Now send the weight in grams (e.g. 5.5)."
	msgWeightInvalid   = "Invalid weight. Send a number between 0.1 and 10000 grams."
	msgPreviewReady    = "This is how the post will look. Publish it?"

	msgPriceNowButton = "Price now"
	msgPublishButton  = "Publish"
	msgCancelButton   = "Cancel"
	msgSubmitButton   = "Send"
	msgDeleteButton   = "Remove"
	msgResetButton    = "Reset all to channel defaults"

	msgExpired   = "This action has expired."
	msgCancelled = "Cancelled."

	msgPublished         = "Published to the channel."
	msgPublishedNoButton = "Published, but the price button could not be linked. Viewers may see an unavailable price until it is fixed."

	msgPriceFetchFailed = "Could not fetch the current price. Please try again later."
	msgSetNotFound      = "This set is not available yet. Try again in a moment."
	msgGeneric          = "Something went wrong. Please try again."

	msgNotAdmin               = "This command is for channel operators."
	msgNoChannel              = "No channel configured. Use /setchannel first."
	msgChannelSet             = "Channel configured. You can publish sets now."
	msgSetChannelInstructions = "Forward any post from your channel to me to link it."

	msgInvalidPercent     = "Invalid percentage. Send a number between 0 and 100."
	msgInvalidViewerClass = "First argument must be customer or collab."
	msgOverrideMenu       = "Per-post pricing. Starred fields are set on this post; the rest follow the channel."
	msgOverridesReset     = "All per-post pricing removed. This post follows the channel defaults again."

	msgBroadcastInstructions = "Send the message you want delivered to every collaborator."
	msgBroadcastPreview      = "This is what collaborators will receive. Send it?"
	msgBroadcastSent         = "Broadcast sent."

	msgTokenInvalid     = "This invite link is invalid or has expired."
	msgCollabRegistered = "You are registered as a collaborator."
	msgAdminRegistered  = "You are registered as a channel operator."
	msgAlreadyCollab    = "You are already a collaborator."
	msgAlreadyAdmin     = "You already operate this channel."

	msgHelp = `Operator commands:
/setchannel - link your channel
/settax, /setfee, /setprofit <customer|collab> <percent> - adjust markup
/viewpricing - show current markup
/hamkar - collaborator invite link
/addadmin - operator invite link
/listhamkar - list collaborators
/pmhamkar - message all collaborators
/amar - view statistics

Send a photo to start publishing a set. Forward a published post back to me to adjust its pricing.`
)

// formatAmount renders a currency amount with thousands separators and two
// decimals. Rounding happens here and nowhere earlier.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func pct(v float64) int { return int(v*100 + 0.5) }

// pricePopupCustomer renders the ephemeral price answer for an ordinary
// viewer. Kept compact: callback answers have a tight length budget.
func pricePopupCustomer(q services.Quote) string {
	return fmt.Sprintf(
		"%s\nWeight: %sg\nSpot: %s\nTax %d%% + fee %d%% + profit %d%%\nPrice: %s",
		q.At.Format("2006-01-02 15:04"),
		trimFloat(q.Weight),
		formatAmount(decimal.NewFromFloat(q.Spot)),
		pct(q.Resolved.CustomerTax.Value),
		pct(q.Resolved.CustomerLaborFee.Value),
		pct(q.Resolved.CustomerSellingProfit.Value),
		formatAmount(q.CustomerPrice),
	)
}

// pricePopupCollab shows the collaborator price plus the ordinary price for
// reference. The two were computed independently.
func pricePopupCollab(q services.Quote) string {
	return fmt.Sprintf(
		"%s\nWeight: %sg\nSpot: %s\nTax %d%% + fee %d%% + profit %d%%\nYour price: %s\nCustomer price: %s",
		q.At.Format("2006-01-02 15:04"),
		trimFloat(q.Weight),
		formatAmount(decimal.NewFromFloat(q.Spot)),
		pct(q.Resolved.CollabTax.Value),
		pct(q.Resolved.CollabLaborFee.Value),
		pct(q.Resolved.CollabSellingProfit.Value),
		formatAmount(q.CollabPrice),
		formatAmount(q.CustomerPrice),
	)
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", f), "0"), ".")
}

var fieldLabels = map[string]string{
	"customerTax":           "Customer tax",
	"customerLaborFee":      "Customer labor fee",
	"customerSellingProfit": "Customer profit",
	"collabTax":             "Collab tax",
	"collabLaborFee":        "Collab labor fee",
	"collabSellingProfit":   "Collab profit",
}

// overrideLabel renders an edit-menu button: field name, origin marker
// (star = set on this post), current percentage.
func overrideLabel(field string, rv services.ResolvedValue) string {
	marker := "·"
	if rv.Origin == services.OriginItem {
		marker = "★"
	}
	return fmt.Sprintf("%s %s (%d%%)", fieldLabels[field], marker, pct(rv.Value))
}

func viewPricingText(rp services.ResolvedPricing) string {
	cust := rp.CustomerTax.Value + rp.CustomerLaborFee.Value + rp.CustomerSellingProfit.Value
	collab := rp.CollabTax.Value + rp.CollabLaborFee.Value + rp.CollabSellingProfit.Value
	return fmt.Sprintf(
		"Channel pricing\n\nCustomers: tax %d%% + fee %d%% + profit %d%% = %d%%\nCollaborators: tax %d%% + fee %d%% + profit %d%% = %d%%",
		pct(rp.CustomerTax.Value), pct(rp.CustomerLaborFee.Value), pct(rp.CustomerSellingProfit.Value), pct(cust),
		pct(rp.CollabTax.Value), pct(rp.CollabLaborFee.Value), pct(rp.CollabSellingProfit.Value), pct(collab),
	)
}
