// Package session owns the in-memory lifecycle state of the posting
// workflow: search sessions, post drafts, the published-post registry,
// and transient reply prompts. Entries are keyed by admin id plus
// creation timestamp and reclaimed by a periodic sweep; everything is
// lost on restart by design.
package session

import (
	"sync"
	"time"

	"seriesbot/pkg/logx"
)

type Config struct {
	SessionTTL time.Duration // default 1h
	DraftTTL   time.Duration // default 1h
	PostTTL    time.Duration // default 24h
	PromptTTL  time.Duration // default 5m
}

func (c Config) withDefaults() Config {
	if c.SessionTTL <= 0 {
		c.SessionTTL = time.Hour
	}
	if c.DraftTTL <= 0 {
		c.DraftTTL = time.Hour
	}
	if c.PostTTL <= 0 {
		c.PostTTL = 24 * time.Hour
	}
	if c.PromptTTL <= 0 {
		c.PromptTTL = 5 * time.Minute
	}
	return c
}

// Manager owns all four stores. Each store has its own mutex so a
// sweep of one class never blocks lookups in another. Callers always
// receive copies; no interior reference escapes.
type Manager struct {
	cfg Config
	log logx.Logger

	sesMu    sync.RWMutex
	sessions map[string]*SearchSession

	drMu   sync.RWMutex
	drafts map[string]*PostDraft

	regMu     sync.RWMutex
	posts     map[string]*PublishedPost
	postOrder []string // insertion order, for ListForAdmin

	prMu    sync.Mutex
	prompts map[int64]Prompt
}

func NewManager(cfg Config, log logx.Logger) *Manager {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Manager{
		cfg:      cfg.withDefaults(),
		log:      log,
		sessions: map[string]*SearchSession{},
		drafts:   map[string]*PostDraft{},
		posts:    map[string]*PublishedPost{},
		prompts:  map[int64]Prompt{},
	}
}

// Sweep evicts every entry past its TTL. Best-effort: a lookup racing
// a sweep observes either state, and a miss already means "expired".
func (m *Manager) Sweep(now time.Time) {
	var sessions, drafts, posts, prompts int

	m.sesMu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.Key.CreatedAt) > m.cfg.SessionTTL {
			delete(m.sessions, id)
			sessions++
		}
	}
	m.sesMu.Unlock()

	m.drMu.Lock()
	for id, d := range m.drafts {
		if now.Sub(d.Key.CreatedAt) > m.cfg.DraftTTL {
			delete(m.drafts, id)
			drafts++
		}
	}
	m.drMu.Unlock()

	m.regMu.Lock()
	for id, p := range m.posts {
		if now.Sub(p.PublishedAt) > m.cfg.PostTTL {
			delete(m.posts, id)
			posts++
		}
	}
	if posts > 0 {
		kept := m.postOrder[:0]
		for _, id := range m.postOrder {
			if _, ok := m.posts[id]; ok {
				kept = append(kept, id)
			}
		}
		m.postOrder = kept
	}
	m.regMu.Unlock()

	m.prMu.Lock()
	for id, p := range m.prompts {
		if now.Sub(p.CreatedAt) > m.cfg.PromptTTL {
			delete(m.prompts, id)
			prompts++
		}
	}
	m.prMu.Unlock()

	if sessions+drafts+posts+prompts > 0 {
		m.log.Debug("sweep evicted entries",
			logx.Int("sessions", sessions),
			logx.Int("drafts", drafts),
			logx.Int("posts", posts),
			logx.Int("prompts", prompts),
		)
	}
}
