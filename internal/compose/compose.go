// Package compose renders series metadata and season links into a post:
// an HTML caption plus a button grid. Everything here is pure so the
// same inputs rebuild byte-identical output for previews and in-place
// re-renders.
package compose

import (
	"fmt"
	"strconv"
	"strings"

	"seriesbot/internal/metadata"
	"seriesbot/pkg/tgui"
)

// Placeholder is the sentinel link target that defers a button to a
// later edit.
const Placeholder = "placeholder"

// ActionFill is the callback action carried by deferred buttons.
const ActionFill = "fill"

// SeasonLink is one ordered "label = target" pair as typed by the admin.
type SeasonLink struct {
	Label  string
	Target string
}

// Deferred reports whether the link still points at the placeholder.
func (l SeasonLink) Deferred() bool {
	t := strings.TrimSpace(l.Target)
	return t == "" || strings.EqualFold(t, Placeholder)
}

func (l SeasonLink) String() string { return l.Label + " = " + l.Target }

// ParseLinks parses the "label = target" pairs of a post command.
// Every pair must contain '='; the offending pair is named otherwise.
func ParseLinks(parts []string) ([]SeasonLink, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("at least one season link is required")
	}
	links := make([]SeasonLink, 0, len(parts))
	for _, p := range parts {
		label, target, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: use 'Season X = link'", strings.TrimSpace(p))
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("invalid pair %q: empty label", strings.TrimSpace(p))
		}
		links = append(links, SeasonLink{Label: label, Target: strings.TrimSpace(target)})
	}
	return links, nil
}

// Button is one transport-neutral inline button: either a direct URL
// button or a callback button carrying Data.
type Button struct {
	Text string
	URL  string
	Data string
}

// Post is a rendered caption plus its button grid.
type Post struct {
	Caption string
	Rows    [][]Button
}

// Compose renders the caption and button grid for a series post.
// postKey may be empty before publish; deferred buttons then carry a
// temporary index-only id.
func Compose(s *metadata.Series, links []SeasonLink, postKey string) Post {
	return Post{
		Caption: caption(s),
		Rows:    buttonRows(links, postKey),
	}
}

func buttonRows(links []SeasonLink, postKey string) [][]Button {
	buttons := make([]Button, 0, len(links))
	for i, l := range links {
		if l.Deferred() {
			data := tgui.Data("tmp", strconv.Itoa(i))
			if postKey != "" {
				data = tgui.Data(ActionFill, postKey+"_"+strconv.Itoa(i))
			}
			buttons = append(buttons, Button{Text: l.Label, Data: data})
			continue
		}
		buttons = append(buttons, Button{Text: l.Label, URL: l.Target})
	}

	// Two buttons per row, season order preserved.
	rows := make([][]Button, 0, (len(buttons)+1)/2)
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}

func caption(s *metadata.Series) string {
	genres := make([]string, 0, len(s.Genres))
	for _, g := range s.Genres {
		genres = append(genres, g.Name)
	}
	seasons := "NA"
	if s.NumberOfSeasons > 0 {
		seasons = strconv.Itoa(s.NumberOfSeasons)
	}
	episodes := make([]string, 0, len(s.Seasons))
	for _, season := range s.Seasons {
		episodes = append(episodes, strconv.Itoa(season.EpisodeCount))
	}
	runtime := "NA"
	if len(s.EpisodeRunTime) > 0 {
		runtime = formatRuntime(s.EpisodeRunTime[0])
	}

	var b strings.Builder
	b.WriteString(tgui.B(fmt.Sprintf("%s (%s)", s.Name, s.FirstAirYear())).String())
	b.WriteString("\n╭──────────────────────\n")
	fmt.Fprintf(&b, "➺ Audio: Japanese-English (E-subs)\n")
	fmt.Fprintf(&b, "➺ Quality: 480p | 720p | 1080p\n")
	fmt.Fprintf(&b, "➺ Duration: %s\n", tgui.Esc(runtime))
	fmt.Fprintf(&b, "➺ Season: %s\n", tgui.Esc(seasons))
	fmt.Fprintf(&b, "➺ Episode: %s\n", tgui.Esc(strings.Join(episodes, "/")))
	b.WriteString("├──────────────────────\n")
	fmt.Fprintf(&b, "➺ Genres: %s\n", tgui.Esc(strings.Join(genres, ", ")))
	b.WriteString("╰──────────────────────")
	if ov := clip(strings.TrimSpace(s.Overview), overviewLimit); ov != "" {
		b.WriteString("\n")
		b.WriteString(tgui.Quote(ov).String())
	}
	return b.String()
}

// overviewLimit keeps the caption well under Telegram's 1024-char cap.
const overviewLimit = 300

func clip(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "…"
}

// formatRuntime renders a raw minute count as "H hr M min", "M min"
// under an hour, or "NA" for non-positive input.
func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "NA"
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%d hr %d min", h, m)
	}
	return fmt.Sprintf("%d min", m)
}
