package compose

import (
	"reflect"
	"strings"
	"testing"

	"seriesbot/internal/metadata"
)

func sampleSeries() *metadata.Series {
	return &metadata.Series{
		ID:              1429,
		Name:            "Attack on Titan",
		FirstAirDate:    "2013-04-07",
		NumberOfSeasons: 4,
		EpisodeRunTime:  []int{24},
		Genres:          []metadata.Genre{{ID: 16, Name: "Animation"}, {ID: 10765, Name: "Sci-Fi & Fantasy"}},
		Seasons: []metadata.Season{
			{SeasonNumber: 1, EpisodeCount: 25},
			{SeasonNumber: 2, EpisodeCount: 12},
		},
	}
}

func TestParseLinks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		parts   []string
		want    []SeasonLink
		wantErr bool
	}{
		{
			name:  "plain pairs",
			parts: []string{"Season 1 = https://t.me/s1", "Season 2 = placeholder"},
			want: []SeasonLink{
				{Label: "Season 1", Target: "https://t.me/s1"},
				{Label: "Season 2", Target: "placeholder"},
			},
		},
		{
			name:  "whitespace trimmed",
			parts: []string{"  Season 1=  link  "},
			want:  []SeasonLink{{Label: "Season 1", Target: "link"}},
		},
		{
			name:    "missing equals",
			parts:   []string{"Season 1 link"},
			wantErr: true,
		},
		{
			name:    "empty label",
			parts:   []string{"= link"},
			wantErr: true,
		},
		{
			name:    "no pairs",
			parts:   nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLinks(tt.parts)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLinks: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeferred(t *testing.T) {
	t.Parallel()
	tests := []struct {
		target string
		want   bool
	}{
		{"placeholder", true},
		{"PLACEHOLDER", true},
		{" ", true},
		{"", true},
		{"https://t.me/s1", false},
	}
	for _, tt := range tests {
		l := SeasonLink{Label: "Season 1", Target: tt.target}
		if got := l.Deferred(); got != tt.want {
			t.Fatalf("Deferred(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestComposeDeterministic(t *testing.T) {
	t.Parallel()
	links := []SeasonLink{
		{Label: "Season 1", Target: "https://t.me/s1"},
		{Label: "Season 2", Target: "placeholder"},
	}
	a := Compose(sampleSeries(), links, "tvp42_100")
	b := Compose(sampleSeries(), links, "tvp42_100")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs produced different posts")
	}
}

func TestComposeButtonGrid(t *testing.T) {
	t.Parallel()
	links := []SeasonLink{
		{Label: "Season 1", Target: "https://t.me/s1"},
		{Label: "Season 2", Target: "https://t.me/s2"},
		{Label: "Season 3", Target: "https://t.me/s3"},
		{Label: "Season 4", Target: "placeholder"},
		{Label: "Season 5", Target: "https://t.me/s5"},
	}
	post := Compose(sampleSeries(), links, "tvp42_100")

	if len(post.Rows) != 3 {
		t.Fatalf("expected 3 rows for 5 buttons, got %d", len(post.Rows))
	}
	if len(post.Rows[0]) != 2 || len(post.Rows[1]) != 2 || len(post.Rows[2]) != 1 {
		t.Fatalf("unexpected row sizes: %d/%d/%d", len(post.Rows[0]), len(post.Rows[1]), len(post.Rows[2]))
	}

	// Season order is preserved left to right, top to bottom.
	flat := []Button{}
	for _, row := range post.Rows {
		flat = append(flat, row...)
	}
	for i, btn := range flat {
		if btn.Text != links[i].Label {
			t.Fatalf("button %d is %q, want %q", i, btn.Text, links[i].Label)
		}
	}

	if flat[0].URL != "https://t.me/s1" || flat[0].Data != "" {
		t.Fatalf("resolved link should be a URL button: %+v", flat[0])
	}
	if flat[3].URL != "" || flat[3].Data != "fill:tvp42_100_3" {
		t.Fatalf("deferred link should carry its post key and index: %+v", flat[3])
	}
}

func TestComposeTempIDsBeforePublish(t *testing.T) {
	t.Parallel()
	links := []SeasonLink{
		{Label: "Season 1", Target: "placeholder"},
		{Label: "Season 2", Target: "placeholder"},
	}
	post := Compose(sampleSeries(), links, "")
	if got := post.Rows[0][0].Data; got != "tmp:0" {
		t.Fatalf("expected temp id for preview button, got %q", got)
	}
	if got := post.Rows[0][1].Data; got != "tmp:1" {
		t.Fatalf("expected temp id for preview button, got %q", got)
	}
}

func TestCaptionContents(t *testing.T) {
	t.Parallel()
	post := Compose(sampleSeries(), []SeasonLink{{Label: "Season 1", Target: "x"}}, "")
	for _, want := range []string{
		"<b>Attack on Titan (2013)</b>",
		"➺ Duration: 24 min",
		"➺ Season: 4",
		"➺ Episode: 25/12",
		"➺ Genres: Animation, Sci-Fi &amp; Fantasy",
		"╭──────────────────────",
		"╰──────────────────────",
	} {
		if !strings.Contains(post.Caption, want) {
			t.Fatalf("caption missing %q:\n%s", want, post.Caption)
		}
	}
}

func TestCaptionOverviewBlockquote(t *testing.T) {
	t.Parallel()

	s := sampleSeries()
	s.Overview = "Humanity lives behind walls & fights titans."
	post := Compose(s, []SeasonLink{{Label: "Season 1", Target: "x"}}, "")
	want := "╰──────────────────────\n<blockquote>Humanity lives behind walls &amp; fights titans.</blockquote>"
	if !strings.Contains(post.Caption, want) {
		t.Fatalf("caption missing overview blockquote:\n%s", post.Caption)
	}

	s.Overview = strings.Repeat("a", 400)
	long := Compose(s, []SeasonLink{{Label: "Season 1", Target: "x"}}, "")
	if !strings.Contains(long.Caption, strings.Repeat("a", 300)+"…") {
		t.Fatalf("long overview not clipped:\n%s", long.Caption)
	}
	if strings.Contains(long.Caption, strings.Repeat("a", 301)) {
		t.Fatalf("overview exceeds clip limit:\n%s", long.Caption)
	}

	s.Overview = "   "
	blank := Compose(s, []SeasonLink{{Label: "Season 1", Target: "x"}}, "")
	if strings.Contains(blank.Caption, "blockquote") {
		t.Fatalf("blank overview should not render a blockquote:\n%s", blank.Caption)
	}
}

func TestCaptionMissingMetadata(t *testing.T) {
	t.Parallel()
	s := &metadata.Series{Name: "Unknown Show"}
	post := Compose(s, []SeasonLink{{Label: "Season 1", Target: "x"}}, "")
	if !strings.Contains(post.Caption, "➺ Duration: NA") {
		t.Fatalf("expected NA duration:\n%s", post.Caption)
	}
	if !strings.Contains(post.Caption, "➺ Season: NA") {
		t.Fatalf("expected NA season count:\n%s", post.Caption)
	}
}

func TestFormatRuntime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "NA"},
		{-5, "NA"},
		{24, "24 min"},
		{60, "1 hr 0 min"},
		{135, "2 hr 15 min"},
	}
	for _, tt := range tests {
		if got := formatRuntime(tt.minutes); got != tt.want {
			t.Fatalf("formatRuntime(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
