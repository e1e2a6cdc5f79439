package session

import (
	"strings"
	"time"

	"seriesbot/internal/compose"
)

// Publish records a published post under the draft's own id, keeping
// key continuity between the preview and the live message.
func (m *Manager) Publish(draft PostDraft, messageID int, adminID int64) string {
	id := draft.Key.PostID()
	p := &PublishedPost{
		Key:         draft.Key,
		ChannelID:   draft.ChannelID,
		MessageID:   messageID,
		Series:      cloneSeries(draft.Series),
		Links:       cloneLinks(draft.Links),
		ImageURL:    draft.ImageURL,
		AdminID:     adminID,
		PublishedAt: time.Now(),
	}
	m.regMu.Lock()
	if _, exists := m.posts[id]; !exists {
		m.postOrder = append(m.postOrder, id)
	}
	m.posts[id] = p
	m.regMu.Unlock()
	return id
}

// Post returns a copy of the published post, or ErrNotFound.
func (m *Manager) Post(id string) (PublishedPost, error) {
	m.regMu.RLock()
	p, ok := m.posts[id]
	if !ok {
		m.regMu.RUnlock()
		return PublishedPost{}, ErrNotFound
	}
	cp := copyPost(p)
	m.regMu.RUnlock()
	return cp, nil
}

// ResolveLinks computes the link set the post would carry after the
// edit, without committing it. The caller renders the live message
// from the result first and commits with UpdateLinks only once the
// transport edit succeeded.
func (m *Manager) ResolveLinks(id string, ownerID int64, updates []compose.SeasonLink) ([]compose.SeasonLink, error) {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	p, ok := m.posts[id]
	if !ok || p.AdminID != ownerID {
		return nil, ErrNotFound
	}
	indices, err := resolveIndices(p.Links, updates)
	if err != nil {
		return nil, err
	}
	merged := cloneLinks(p.Links)
	for i, u := range updates {
		merged[indices[i]].Target = strings.TrimSpace(u.Target)
	}
	return merged, nil
}

// UpdateLinks replaces link targets by case-insensitive label match.
// The whole edit is atomic: an unknown or ambiguous label rejects every
// update and leaves the post untouched. On success it returns the new
// pairs so the caller can re-render the live message.
func (m *Manager) UpdateLinks(id string, ownerID int64, updates []compose.SeasonLink) ([]compose.SeasonLink, error) {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.AdminID != ownerID {
		return nil, ErrNotFound
	}
	indices, err := resolveIndices(p.Links, updates)
	if err != nil {
		return nil, err
	}
	for i, u := range updates {
		p.Links[indices[i]].Target = strings.TrimSpace(u.Target)
	}
	return cloneLinks(p.Links), nil
}

// resolveIndices maps each update to exactly one existing link by
// case-insensitive label match; anything else rejects the whole edit.
func resolveIndices(links, updates []compose.SeasonLink) ([]int, error) {
	indices := make([]int, len(updates))
	for i, u := range updates {
		idx := -1
		for j, l := range links {
			if strings.EqualFold(strings.TrimSpace(l.Label), strings.TrimSpace(u.Label)) {
				if idx != -1 {
					return nil, &AmbiguousLabelError{Label: u.Label}
				}
				idx = j
			}
		}
		if idx == -1 {
			return nil, &UnknownLabelError{Label: u.Label}
		}
		indices[i] = idx
	}
	return indices, nil
}

// SetLinkAt fills a single button by index; used by the prompt-fill
// flow where the tapped button already names its position.
func (m *Manager) SetLinkAt(id string, ownerID int64, index int, target string) ([]compose.SeasonLink, error) {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.AdminID != ownerID {
		return nil, ErrNotFound
	}
	if index < 0 || index >= len(p.Links) {
		return nil, ErrNotFound
	}
	p.Links[index].Target = strings.TrimSpace(target)
	return cloneLinks(p.Links), nil
}

// PostSummary is the read model for the list command.
type PostSummary struct {
	ID          string
	SeriesName  string
	ChannelID   int64
	PublishedAt time.Time
}

// ListForAdmin returns the admin's last `limit` posts by insertion
// order, oldest first within that trailing slice.
func (m *Manager) ListForAdmin(adminID int64, limit int) []PostSummary {
	if limit <= 0 {
		limit = 10
	}
	m.regMu.RLock()
	defer m.regMu.RUnlock()

	matched := make([]PostSummary, 0, limit)
	for _, id := range m.postOrder {
		p, ok := m.posts[id]
		if !ok || p.AdminID != adminID {
			continue
		}
		matched = append(matched, PostSummary{
			ID:          id,
			SeriesName:  p.Series.Name,
			ChannelID:   p.ChannelID,
			PublishedAt: p.PublishedAt,
		})
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched
}

func copyPost(p *PublishedPost) PublishedPost {
	cp := *p
	cp.Series = cloneSeries(p.Series)
	cp.Links = cloneLinks(p.Links)
	return cp
}
