package ws

import (
	"sync"
	"time"
)

// WinnerEvent is one "somebody just won" announcement for the storefront
// ticker. Identities are masked before broadcast.
type WinnerEvent struct {
	Type  string `json:"type"`
	Who   string `json:"who"`
	Prize string `json:"prize"`
	WonAt int64  `json:"won_at"`
}

const recentWinnerCap = 20

// WinnerHub broadcasts winning spins and keeps a short ring of recent
// wins for clients that connect later.
type WinnerHub struct {
	*Hub
	mu     sync.RWMutex
	recent []WinnerEvent
}

func NewWinnerHub() *WinnerHub {
	return &WinnerHub{Hub: NewHub()}
}

// maskIdentity shortens an identity key so the feed never leaks who a
// session or user actually is.
func maskIdentity(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "…"
}

// Announce records and broadcasts a win.
func (w *WinnerHub) Announce(identityKey, prizeName string) {
	evt := WinnerEvent{
		Type:  "winner",
		Who:   maskIdentity(identityKey),
		Prize: prizeName,
		WonAt: time.Now().Unix(),
	}
	w.mu.Lock()
	w.recent = append(w.recent, evt)
	if len(w.recent) > recentWinnerCap {
		w.recent = w.recent[len(w.recent)-recentWinnerCap:]
	}
	w.mu.Unlock()
	w.BroadcastAll(evt)
}

// Recent returns the latest wins, newest last.
func (w *WinnerHub) Recent() []WinnerEvent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]WinnerEvent, len(w.recent))
	copy(out, w.recent)
	return out
}
