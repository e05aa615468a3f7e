package store

import "sync"

// Prefs models the browser-local key/value state: the theme preference, the
// logged-in session marker and the per-user welcome flags. Plain strings, no
// schema versioning, same lifetime as the process.
type Prefs struct {
	mu          sync.RWMutex
	theme       string
	sessionMail string
	welcomeSeen map[string]bool
}

func NewPrefs() *Prefs {
	return &Prefs{theme: "dark", welcomeSeen: make(map[string]bool)}
}

func (p *Prefs) Theme() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *Prefs) SetTheme(theme string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
}

// SessionEmail returns the persisted logged-in marker, empty when no session
// is stored.
func (p *Prefs) SessionEmail() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sessionMail
}

func (p *Prefs) SetSessionEmail(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionMail = email
}

func (p *Prefs) ClearSessionEmail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionMail = ""
}

func (p *Prefs) WelcomeSeen(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.welcomeSeen[userID]
}

func (p *Prefs) MarkWelcomeSeen(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.welcomeSeen[userID] = true
}
