package bot

import (
	"context"

	"goldbot/internal/services"
)

// The services package talks to the chat transport through narrow
// interfaces; these adapters bind them to a Transport.

type channelPoster struct{ t Transport }

func NewChannelPoster(t Transport) services.ChannelPoster { return channelPoster{t} }

func (p channelPoster) PostPhoto(ctx context.Context, channelID, photoRef, caption, buttonData string) (int, error) {
	return p.t.SendPhoto(ctx, channelID, photoRef, caption, [][]Button{
		{{Text: msgPriceNowButton, Data: buttonData}},
	})
}

func (p channelPoster) UpdateButton(ctx context.Context, channelID string, messageID int, buttonData string) error {
	return p.t.EditButtons(ctx, channelID, messageID, [][]Button{
		{{Text: msgPriceNowButton, Data: buttonData}},
	})
}

func (p channelPoster) Delete(ctx context.Context, channelID string, messageID int) error {
	return p.t.DeleteMessage(ctx, channelID, messageID)
}

type messageCopier struct{ t Transport }

func NewMessageCopier(t Transport) services.MessageCopier { return messageCopier{t} }

func (c messageCopier) Copy(ctx context.Context, toChatID, fromChatID int64, messageID int) error {
	_, err := c.t.CopyMessage(ctx, Chat(toChatID), Chat(fromChatID), messageID)
	return err
}

type reportSender struct{ t Transport }

func NewReportSender(t Transport) services.ReportSender { return reportSender{t} }

func (s reportSender) SendReport(ctx context.Context, userID int64, text string) error {
	_, err := s.t.SendMessage(ctx, Chat(userID), text, nil)
	return err
}
