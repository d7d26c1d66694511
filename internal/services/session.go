package services

import "sync"

// Mode is the single active flow of a session. Arming one flow drops the
// bookkeeping of the others; at most one "awaiting" state exists per user.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAwaitCaption
	ModeAwaitWeight
	ModePreview
	ModeAwaitOverrideValue
	ModeAwaitBroadcast
	ModeAwaitChannelForward
)

// Draft is an in-progress, unpublished set. One per user at a time.
type Draft struct {
	ID               string
	PhotoRef         string
	Caption          string
	CaptionSet       bool
	Weight           float64
	PreviewMessageID int
	ControlMessageID int
}

// Session is the per-user state envelope. Events for one user are handled
// sequentially, so fields are only touched from one goroutine at a time.
type Session struct {
	Mode  Mode
	Draft *Draft

	// override-edit flow
	EditingSetID      int64
	EditingField      string
	EditMenuMessageID int

	// broadcast flow
	BroadcastMessageID int
	BroadcastChatID    int64
	BroadcastControlID int
}

// Enter switches the session to a new flow, clearing bookkeeping that
// belongs to the flows being left. The draft survives mode changes inside
// the authoring flow (caption -> weight -> preview) and is dropped only by
// cancel, finalize, or a new photo.
func (s *Session) Enter(m Mode) {
	if m != ModeAwaitOverrideValue {
		s.EditingSetID = 0
		s.EditingField = ""
		s.EditMenuMessageID = 0
	}
	if m != ModeAwaitBroadcast {
		s.BroadcastMessageID = 0
		s.BroadcastChatID = 0
		s.BroadcastControlID = 0
	}
	s.Mode = m
}

// SessionStore hands out per-user sessions. Injected into the workflow; a
// session is created on first interaction and cleared on finalize/cancel.
type SessionStore interface {
	Get(userID int64) *Session
	Clear(userID int64)
}

type MemorySessionStore struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{m: make(map[int64]*Session)}
}

func (s *MemorySessionStore) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = &Session{}
		s.m[userID] = sess
	}
	return sess
}

func (s *MemorySessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
