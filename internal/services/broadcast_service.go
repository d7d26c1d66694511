package services

import (
	"context"

	applog "goldbot/internal/log"
	"goldbot/internal/repos"
)

// MessageCopier copies a stored message to another private chat.
type MessageCopier interface {
	Copy(ctx context.Context, toChatID, fromChatID int64, messageID int) error
}

// BroadcastService sends an operator's previewed message to every
// collaborator. Delivery is best-effort: failures are counted, not retried.
type BroadcastService struct {
	Access *repos.AccessRepo
	Copier MessageCopier
}

func NewBroadcastService(access *repos.AccessRepo, copier MessageCopier) *BroadcastService {
	return &BroadcastService{Access: access, Copier: copier}
}

// Send copies the message to all collaborators and reports how many
// deliveries succeeded and failed.
func (s *BroadcastService) Send(ctx context.Context, fromChatID int64, messageID int) (sent, failed int, err error) {
	collabs, err := s.Access.Collaborators()
	if err != nil {
		return 0, 0, err
	}
	for _, c := range collabs {
		if cerr := s.Copier.Copy(ctx, c.UserID, fromChatID, messageID); cerr != nil {
			applog.Error(c.UserID, "broadcast.copy", cerr, nil)
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}
