// Package command encodes and decodes inline-button payloads. Every
// affordance carries a tag plus correlating ids as a colon-delimited string;
// decoding happens once at the boundary and unknown tags are dropped.
package command

import (
	"fmt"
	"strconv"
	"strings"
)

type Command interface{ isCommand() }

// PreviewPrice prices the draft currently in preview.
type PreviewPrice struct{ DraftID string }

// Finalize publishes the previewed draft to the channel.
type Finalize struct{ DraftID string }

// Cancel discards the draft (or an armed sub-flow).
type Cancel struct{ DraftID string }

// ChannelPrice prices a published set on demand. Ref is the set id, or the
// placeholder a just-posted message carries until its button is rewritten.
type ChannelPrice struct{ Ref string }

// PendingRef marks a channel post whose set id is not yet known.
const PendingRef = "pending"

// SetID resolves Ref to a set id; false for the pending placeholder or junk.
func (c ChannelPrice) SetID() (int64, bool) {
	id, err := strconv.ParseInt(c.Ref, 10, 64)
	return id, err == nil && id > 0
}

// BroadcastSubmit / BroadcastCancel correlate with the previewed message.
type BroadcastSubmit struct{ MessageID int }
type BroadcastCancel struct{ MessageID int }

// EditPricing arms an override edit for one field of a published set.
type EditPricing struct {
	SetID int64
	Field string
}

// ResetPricing nulls all six overrides of a set.
type ResetPricing struct{ SetID int64 }

// DeleteCollaborator removes a collaborator from the roster list.
type DeleteCollaborator struct{ UserID int64 }

func (PreviewPrice) isCommand()       {}
func (Finalize) isCommand()           {}
func (Cancel) isCommand()             {}
func (ChannelPrice) isCommand()       {}
func (BroadcastSubmit) isCommand()    {}
func (BroadcastCancel) isCommand()    {}
func (EditPricing) isCommand()        {}
func (ResetPricing) isCommand()       {}
func (DeleteCollaborator) isCommand() {}

const (
	tagPreviewPrice    = "preview_price"
	tagFinalize        = "finalize"
	tagCancel          = "cancel"
	tagChannelPrice    = "channel_price"
	tagBroadcastSubmit = "broadcast_submit"
	tagBroadcastCancel = "broadcast_cancel"
	tagEditPricing     = "edit_pricing"
	tagResetPricing    = "reset_pricing"
	tagDeleteCollab    = "delham"
)

// Parse decodes a button payload. ok is false for unrecognized or
// malformed payloads, which the router ignores silently.
func Parse(data string) (Command, bool) {
	tag, rest, found := strings.Cut(data, ":")
	if !found {
		return nil, false
	}
	switch tag {
	case tagPreviewPrice:
		return PreviewPrice{DraftID: rest}, rest != ""
	case tagFinalize:
		return Finalize{DraftID: rest}, rest != ""
	case tagCancel:
		return Cancel{DraftID: rest}, rest != ""
	case tagChannelPrice:
		return ChannelPrice{Ref: rest}, rest != ""
	case tagBroadcastSubmit:
		id, err := strconv.Atoi(rest)
		return BroadcastSubmit{MessageID: id}, err == nil
	case tagBroadcastCancel:
		id, err := strconv.Atoi(rest)
		return BroadcastCancel{MessageID: id}, err == nil
	case tagEditPricing:
		idStr, field, found := strings.Cut(rest, ":")
		if !found {
			return nil, false
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		return EditPricing{SetID: id, Field: field}, err == nil && field != ""
	case tagResetPricing:
		id, err := strconv.ParseInt(rest, 10, 64)
		return ResetPricing{SetID: id}, err == nil
	case tagDeleteCollab:
		id, err := strconv.ParseInt(rest, 10, 64)
		return DeleteCollaborator{UserID: id}, err == nil
	}
	return nil, false
}

// Encode renders a command back into its payload form.
func Encode(c Command) string {
	switch c := c.(type) {
	case PreviewPrice:
		return tagPreviewPrice + ":" + c.DraftID
	case Finalize:
		return tagFinalize + ":" + c.DraftID
	case Cancel:
		return tagCancel + ":" + c.DraftID
	case ChannelPrice:
		return tagChannelPrice + ":" + c.Ref
	case BroadcastSubmit:
		return fmt.Sprintf("%s:%d", tagBroadcastSubmit, c.MessageID)
	case BroadcastCancel:
		return fmt.Sprintf("%s:%d", tagBroadcastCancel, c.MessageID)
	case EditPricing:
		return fmt.Sprintf("%s:%d:%s", tagEditPricing, c.SetID, c.Field)
	case ResetPricing:
		return fmt.Sprintf("%s:%d", tagResetPricing, c.SetID)
	case DeleteCollaborator:
		return fmt.Sprintf("%s:%d", tagDeleteCollab, c.UserID)
	}
	return ""
}

// ChannelPriceRef builds the payload for a published set's price button.
func ChannelPriceRef(setID int64) string {
	return Encode(ChannelPrice{Ref: strconv.FormatInt(setID, 10)})
}
