// Package telegram implements bot.Transport against the Telegram Bot API
// over HTTPS, plus a long-polling update source.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"goldbot/internal/bot"
	applog "goldbot/internal/log"

	"github.com/go-resty/resty/v2"
)

const apiBase = "https://api.telegram.org"

// Client is a thin Bot API wrapper. Every method call is one HTTPS request;
// no local state beyond the polling offset.
type Client struct {
	client   *resty.Client
	token    string
	username string
	offset   int64
}

// New connects and resolves the bot's own username via getMe.
func New(ctx context.Context, token string) (*Client, error) {
	c := &Client{
		client: resty.New().SetTimeout(65 * time.Second).SetBaseURL(apiBase),
		token:  token,
	}
	var me struct {
		Username string `json:"username"`
	}
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	c.username = me.Username
	return c, nil
}

func (c *Client) Username() string { return c.username }

// apiEnvelope is the Bot API response wrapper.
type apiEnvelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// call POSTs one method with a JSON body and unmarshals result into out.
func (c *Client) call(ctx context.Context, method string, body map[string]any, out any) error {
	var env apiEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&env).
		Post("/bot" + c.token + "/" + method)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	if resp.IsError() || !env.OK {
		return fmt.Errorf("telegram %s: %d %s", method, env.ErrorCode, env.Description)
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

func keyboardMarkup(kb [][]bot.Button) map[string]any {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]map[string]any, 0, len(kb))
	for _, row := range kb {
		r := make([]map[string]any, 0, len(row))
		for _, b := range row {
			r = append(r, map[string]any{"text": b.Text, "callback_data": b.Data})
		}
		rows = append(rows, r)
	}
	return map[string]any{"inline_keyboard": rows}
}

// sentMessage carries the only field callers need back.
type sentMessage struct {
	MessageID int `json:"message_id"`
}

func (c *Client) SendMessage(ctx context.Context, chat, text string, keyboard [][]bot.Button) (int, error) {
	body := map[string]any{"chat_id": chat, "text": text}
	if mk := keyboardMarkup(keyboard); mk != nil {
		body["reply_markup"] = mk
	}
	var msg sentMessage
	if err := c.call(ctx, "sendMessage", body, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (c *Client) SendPhoto(ctx context.Context, chat, photoRef, caption string, keyboard [][]bot.Button) (int, error) {
	body := map[string]any{"chat_id": chat, "photo": photoRef}
	if caption != "" {
		body["caption"] = caption
	}
	if mk := keyboardMarkup(keyboard); mk != nil {
		body["reply_markup"] = mk
	}
	var msg sentMessage
	if err := c.call(ctx, "sendPhoto", body, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (c *Client) EditButtons(ctx context.Context, chat string, messageID int, keyboard [][]bot.Button) error {
	body := map[string]any{"chat_id": chat, "message_id": messageID}
	if mk := keyboardMarkup(keyboard); mk != nil {
		body["reply_markup"] = mk
	}
	return c.call(ctx, "editMessageReplyMarkup", body, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, chat string, messageID int) error {
	return c.call(ctx, "deleteMessage", map[string]any{"chat_id": chat, "message_id": messageID}, nil)
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	body := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		body["text"] = text
		body["show_alert"] = alert
	}
	return c.call(ctx, "answerCallbackQuery", body, nil)
}

func (c *Client) CopyMessage(ctx context.Context, toChat, fromChat string, messageID int) (int, error) {
	var msg sentMessage
	err := c.call(ctx, "copyMessage", map[string]any{
		"chat_id":      toChat,
		"from_chat_id": fromChat,
		"message_id":   messageID,
	}, &msg)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (c *Client) React(ctx context.Context, chat string, messageID int, emoji string) error {
	return c.call(ctx, "setMessageReaction", map[string]any{
		"chat_id":    chat,
		"message_id": messageID,
		"reaction":   []map[string]any{{"type": "emoji", "emoji": emoji}},
	}, nil)
}

// wire shapes for getUpdates, trimmed to the fields the bot reads.
type (
	wireUser struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	wireChat struct {
		ID int64 `json:"id"`
	}
	wirePhoto struct {
		FileID string `json:"file_id"`
	}
	wireMessage struct {
		MessageID int         `json:"message_id"`
		From      *wireUser   `json:"from"`
		Chat      wireChat    `json:"chat"`
		Text      string      `json:"text"`
		Caption   string      `json:"caption"`
		Photo     []wirePhoto `json:"photo"`

		ForwardOrigin *struct {
			Type string    `json:"type"`
			Chat *wireChat `json:"chat"`
			ID   int       `json:"message_id"`
		} `json:"forward_origin"`
	}
	wireCallback struct {
		ID      string       `json:"id"`
		From    wireUser     `json:"from"`
		Message *wireMessage `json:"message"`
		Data    string       `json:"data"`
	}
	wireUpdate struct {
		UpdateID int64         `json:"update_id"`
		Message  *wireMessage  `json:"message"`
		Callback *wireCallback `json:"callback_query"`
	}
)

// flatten maps one wire update onto the bot's update shape. Updates the bot
// has no handler for come out zero-valued and are dropped by the caller.
func flatten(w wireUpdate) bot.Update {
	u := bot.Update{ID: w.UpdateID}

	if w.Callback != nil {
		u.UserID = w.Callback.From.ID
		u.Username = w.Callback.From.Username
		u.CallbackID = w.Callback.ID
		u.CallbackData = w.Callback.Data
		if m := w.Callback.Message; m != nil {
			u.ChatID = m.Chat.ID
			u.MessageID = m.MessageID
		}
		return u
	}

	m := w.Message
	if m == nil || m.From == nil {
		return u
	}
	u.UserID = m.From.ID
	u.Username = m.From.Username
	u.ChatID = m.Chat.ID
	u.MessageID = m.MessageID
	u.Text = m.Text

	// Telegram sends several sizes of the same photo; the last is the
	// largest.
	if len(m.Photo) > 0 {
		u.PhotoRef = m.Photo[len(m.Photo)-1].FileID
		if u.Text == "" {
			u.Text = m.Caption
		}
	}
	if fo := m.ForwardOrigin; fo != nil && fo.Type == "channel" && fo.Chat != nil {
		u.ForwardChannelID = strconv.FormatInt(fo.Chat.ID, 10)
		u.ForwardMessageID = fo.ID
	}
	return u
}

// Updates long-polls getUpdates and delivers flattened updates on the
// returned channel until ctx is cancelled. Poll failures back off and retry;
// the channel only closes on cancellation.
func (c *Client) Updates(ctx context.Context) <-chan bot.Update {
	out := make(chan bot.Update)
	go func() {
		defer close(out)
		for {
			var updates []wireUpdate
			err := c.call(ctx, "getUpdates", map[string]any{
				"offset":          c.offset,
				"timeout":         60,
				"allowed_updates": []string{"message", "callback_query"},
			}, &updates)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				applog.Warn(0, "telegram.poll", map[string]any{"err": err.Error()})
				select {
				case <-ctx.Done():
					return
				case <-time.After(3 * time.Second):
				}
				continue
			}
			for _, w := range updates {
				c.offset = w.UpdateID + 1
				u := flatten(w)
				if u.UserID == 0 {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- u:
				}
			}
		}
	}()
	return out
}
