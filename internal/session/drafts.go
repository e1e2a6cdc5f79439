package session

import (
	"seriesbot/internal/compose"
	"seriesbot/internal/metadata"
)

// CreateDraft stores a fully composed preview and returns its post id.
// The id keeps the "tvp<admin>_<timestamp>" shape so the published post
// can reuse it unchanged.
func (m *Manager) CreateDraft(adminID int64, series metadata.Series, links []compose.SeasonLink, imageURL string, post compose.Post, channelID int64, channelLabel string) string {
	key := NewKey(adminID)
	d := &PostDraft{
		Key:          key,
		Series:       cloneSeries(series),
		Links:        cloneLinks(links),
		ImageURL:     imageURL,
		Post:         clonePost(post),
		ChannelID:    channelID,
		ChannelLabel: channelLabel,
	}
	id := key.PostID()
	m.drMu.Lock()
	m.drafts[id] = d
	m.drMu.Unlock()
	return id
}

// Draft returns a copy of the draft, or ErrNotFound.
func (m *Manager) Draft(id string) (PostDraft, error) {
	m.drMu.RLock()
	d, ok := m.drafts[id]
	if !ok {
		m.drMu.RUnlock()
		return PostDraft{}, ErrNotFound
	}
	cp := *d
	cp.Series = cloneSeries(d.Series)
	cp.Links = cloneLinks(d.Links)
	cp.Post = clonePost(d.Post)
	m.drMu.RUnlock()
	return cp, nil
}

// RemoveDraft deletes the draft after a confirm or cancel.
func (m *Manager) RemoveDraft(id string) {
	m.drMu.Lock()
	delete(m.drafts, id)
	m.drMu.Unlock()
}
