package session

import (
	"errors"
	"fmt"
	"time"

	"seriesbot/internal/compose"
	"seriesbot/internal/metadata"
)

// ErrNotFound reports a cache-key miss. Callers treat it as "expired",
// never as an internal fault.
var ErrNotFound = errors.New("session: not found")

// UnknownLabelError rejects a link edit whose label matches no season
// of the published post.
type UnknownLabelError struct{ Label string }

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("season %q not found in original post", e.Label)
}

// AmbiguousLabelError rejects a link edit whose label matches more than
// one season after case normalization.
type AmbiguousLabelError struct{ Label string }

func (e *AmbiguousLabelError) Error() string {
	return fmt.Sprintf("season label %q is ambiguous in original post", e.Label)
}

// SearchSession is an in-progress search: created by the post command,
// mutated by pagination, consumed by a selection.
type SearchSession struct {
	Key        Key
	Query      string
	Links      []compose.SeasonLink
	Page       int
	TotalPages int
	Results    []metadata.Candidate
}

// PostDraft is a fully composed, not-yet-published post awaiting
// confirmation. Immutable once created.
type PostDraft struct {
	Key          Key
	Series       metadata.Series
	Links        []compose.SeasonLink
	ImageURL     string
	Post         compose.Post
	ChannelID    int64
	ChannelLabel string
}

// PublishedPost is a live channel post the owning admin may still edit.
// Links are the only mutable attribute; their cardinality and order are
// fixed at publish time.
type PublishedPost struct {
	Key         Key
	ChannelID   int64
	MessageID   int
	Series      metadata.Series
	Links       []compose.SeasonLink
	ImageURL    string
	AdminID     int64
	PublishedAt time.Time
}

// Prompt is a transient "awaiting admin reply" context created when an
// admin taps a deferred button; the admin's next free-text message
// fills the named button.
type Prompt struct {
	AdminID   int64
	PostID    string
	Index     int
	Label     string
	CreatedAt time.Time
}

func cloneLinks(links []compose.SeasonLink) []compose.SeasonLink {
	return append([]compose.SeasonLink(nil), links...)
}

func cloneCandidates(cs []metadata.Candidate) []metadata.Candidate {
	return append([]metadata.Candidate(nil), cs...)
}

func cloneSeries(s metadata.Series) metadata.Series {
	cp := s
	cp.Genres = append([]metadata.Genre(nil), s.Genres...)
	cp.EpisodeRunTime = append([]int(nil), s.EpisodeRunTime...)
	cp.Seasons = append([]metadata.Season(nil), s.Seasons...)
	return cp
}

func clonePost(p compose.Post) compose.Post {
	cp := p
	cp.Rows = make([][]compose.Button, len(p.Rows))
	for i, row := range p.Rows {
		cp.Rows[i] = append([]compose.Button(nil), row...)
	}
	return cp
}
