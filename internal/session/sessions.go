package session

import (
	"seriesbot/internal/compose"
	"seriesbot/internal/metadata"
)

// CreateSession stores a new search session and returns its id.
func (m *Manager) CreateSession(adminID int64, query string, links []compose.SeasonLink, page *metadata.SearchPage) string {
	key := NewKey(adminID)
	s := &SearchSession{
		Key:        key,
		Query:      query,
		Links:      cloneLinks(links),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Results:    cloneCandidates(page.Results),
	}
	id := key.SessionID()
	m.sesMu.Lock()
	m.sessions[id] = s
	m.sesMu.Unlock()
	return id
}

// Session returns a copy of the session, or ErrNotFound when it was
// consumed or swept.
func (m *Manager) Session(id string) (SearchSession, error) {
	m.sesMu.RLock()
	s, ok := m.sessions[id]
	if !ok {
		m.sesMu.RUnlock()
		return SearchSession{}, ErrNotFound
	}
	cp := *s
	cp.Links = cloneLinks(s.Links)
	cp.Results = cloneCandidates(s.Results)
	m.sesMu.RUnlock()
	return cp, nil
}

// AdvancePage mutates the session's page and result set in place.
// A miss returns ErrNotFound; the caller reports "expired".
func (m *Manager) AdvancePage(id string, page *metadata.SearchPage) error {
	m.sesMu.Lock()
	defer m.sesMu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.Page = page.Page
	s.TotalPages = page.TotalPages
	s.Results = cloneCandidates(page.Results)
	return nil
}

// RemoveSession deletes the session once a selection consumed it.
func (m *Manager) RemoveSession(id string) {
	m.sesMu.Lock()
	delete(m.sessions, id)
	m.sesMu.Unlock()
}
