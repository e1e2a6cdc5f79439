package session

import "time"

// SetPrompt records that the admin's next free-text message should fill
// the named button. One pending prompt per admin; a newer tap replaces
// an older one.
func (m *Manager) SetPrompt(adminID int64, postID string, index int, label string) {
	m.prMu.Lock()
	m.prompts[adminID] = Prompt{
		AdminID:   adminID,
		PostID:    postID,
		Index:     index,
		Label:     label,
		CreatedAt: time.Now(),
	}
	m.prMu.Unlock()
}

// TakePrompt consumes the admin's pending prompt, if any. Expired
// prompts count as absent even before the sweeper runs.
func (m *Manager) TakePrompt(adminID int64) (Prompt, bool) {
	m.prMu.Lock()
	defer m.prMu.Unlock()
	p, ok := m.prompts[adminID]
	if !ok {
		return Prompt{}, false
	}
	delete(m.prompts, adminID)
	if time.Since(p.CreatedAt) > m.cfg.PromptTTL {
		return Prompt{}, false
	}
	return p, true
}

// ClearPrompt drops a pending prompt without consuming it.
func (m *Manager) ClearPrompt(adminID int64) {
	m.prMu.Lock()
	delete(m.prompts, adminID)
	m.prMu.Unlock()
}
