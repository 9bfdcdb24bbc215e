package ui

import (
	"sync"
	"time"
)

type NotifyKind string

const (
	NotifyInfo    NotifyKind = "info"
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

const DefaultNotifyTTL = 5 * time.Second

type Notification struct {
	Kind    NotifyKind
	Message string
	At      time.Time
}

// Notifier shows one notification at a time. A newer one replaces the
// current one, and each auto-dismisses after the TTL.
type Notifier struct {
	mu       sync.Mutex
	ttl      time.Duration
	current  *Notification
	seq      uint64
	timer    *time.Timer
	onChange func(*Notification)
}

// NewNotifier calls onChange with every shown notification and with nil
// when it is dismissed. onChange may be nil.
func NewNotifier(onChange func(*Notification)) *Notifier {
	return &Notifier{ttl: DefaultNotifyTTL, onChange: onChange}
}

func (n *Notifier) SetTTL(d time.Duration) {
	n.mu.Lock()
	n.ttl = d
	n.mu.Unlock()
}

func (n *Notifier) Notify(kind NotifyKind, message string) {
	note := &Notification{Kind: kind, Message: message, At: time.Now()}

	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = note
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(seq) })
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(note)
	}
}

func (n *Notifier) Info(message string)    { n.Notify(NotifyInfo, message) }
func (n *Notifier) Success(message string) { n.Notify(NotifySuccess, message) }
func (n *Notifier) Error(message string)   { n.Notify(NotifyError, message) }

// expire hides the notification identified by seq unless a newer one
// replaced it.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}

// Dismiss hides the current notification immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	had := n.current != nil
	n.current = nil
	n.seq++
	cb := n.onChange
	n.mu.Unlock()

	if had && cb != nil {
		cb(nil)
	}
}

func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}
