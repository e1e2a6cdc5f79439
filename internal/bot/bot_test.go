package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v4"

	"seriesbot/internal/metadata"
	"seriesbot/internal/session"
	"seriesbot/internal/storage"
	kit "seriesbot/internal/transport"
	"seriesbot/pkg/logx"
)

type fakeCall struct {
	method    string
	chatID    int64
	messageID int
	text      string
	markup    *tele.ReplyMarkup
	stickerID string
}

type fakeAdapter struct {
	mu      sync.Mutex
	nextID  int
	calls   []fakeCall
	answers []string

	failSend error
	failEdit error
}

func (f *fakeAdapter) record(c fakeCall) { f.calls = append(f.calls, c) }

func markupOf(opt *kit.SendOptions) *tele.ReplyMarkup {
	if opt == nil {
		return nil
	}
	m, _ := opt.ReplyMarkup.(*tele.ReplyMarkup)
	return m
}

func (f *fakeAdapter) Start(ctx context.Context, out chan<- kit.Update) error { return nil }
func (f *fakeAdapter) Stop(ctx context.Context) error                        { return nil }

func (f *fakeAdapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend != nil {
		return kit.MessageRef{}, f.failSend
	}
	f.nextID++
	f.record(fakeCall{method: "SendText", chatID: to.ChatID, messageID: f.nextID, text: text, markup: markupOf(opt)})
	return kit.MessageRef{ChatID: to.ChatID, MessageID: f.nextID}, nil
}

func (f *fakeAdapter) SendPhoto(ctx context.Context, to kit.ChatTarget, photoURL, caption string, opt *kit.SendOptions) (kit.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend != nil {
		return kit.MessageRef{}, f.failSend
	}
	f.nextID++
	f.record(fakeCall{method: "SendPhoto", chatID: to.ChatID, messageID: f.nextID, text: caption, markup: markupOf(opt)})
	return kit.MessageRef{ChatID: to.ChatID, MessageID: f.nextID}, nil
}

func (f *fakeAdapter) EditText(ctx context.Context, ref kit.MessageRef, text string, opt *kit.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit != nil {
		return f.failEdit
	}
	f.record(fakeCall{method: "EditText", chatID: ref.ChatID, messageID: ref.MessageID, text: text, markup: markupOf(opt)})
	return nil
}

func (f *fakeAdapter) EditCaption(ctx context.Context, ref kit.MessageRef, caption string, opt *kit.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit != nil {
		return f.failEdit
	}
	f.record(fakeCall{method: "EditCaption", chatID: ref.ChatID, messageID: ref.MessageID, text: caption, markup: markupOf(opt)})
	return nil
}

func (f *fakeAdapter) DeleteMessage(ctx context.Context, ref kit.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fakeCall{method: "DeleteMessage", chatID: ref.ChatID, messageID: ref.MessageID})
	return nil
}

func (f *fakeAdapter) AnswerCallback(ctx context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeAdapter) SendSticker(ctx context.Context, to kit.ChatTarget, stickerID string) (kit.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.record(fakeCall{method: "SendSticker", chatID: to.ChatID, messageID: f.nextID, stickerID: stickerID})
	return kit.MessageRef{ChatID: to.ChatID, MessageID: f.nextID}, nil
}

// last returns the most recent call of the given method.
func (f *fakeAdapter) last(t *testing.T, method string) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == method {
			return f.calls[i]
		}
	}
	t.Fatalf("no %s call recorded", method)
	return fakeCall{}
}

func (f *fakeAdapter) channelCalls(channelID int64) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.chatID == channelID {
			out = append(out, c)
		}
	}
	return out
}

// buttonData collects all callback data strings in a markup.
func buttonData(m *tele.ReplyMarkup) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			if btn.Data != "" {
				out = append(out, btn.Data)
			}
		}
	}
	return out
}

func findData(t *testing.T, m *tele.ReplyMarkup, action string) string {
	t.Helper()
	for _, d := range buttonData(m) {
		if strings.HasPrefix(d, action+":") {
			return d
		}
	}
	t.Fatalf("no %q button in markup %v", action, buttonData(m))
	return ""
}

type fakeMeta struct {
	pages  map[int]*metadata.SearchPage
	series map[int64]*metadata.Series

	searchErr error
	detailErr error
	queries   []string
}

func (f *fakeMeta) Search(ctx context.Context, query string, page int) (*metadata.SearchPage, error) {
	f.queries = append(f.queries, fmt.Sprintf("%s#%d", query, page))
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	p, ok := f.pages[page]
	if !ok {
		return nil, metadata.ErrNoResults
	}
	return p, nil
}

func (f *fakeMeta) Detail(ctx context.Context, id int64) (*metadata.Series, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	s, ok := f.series[id]
	if !ok {
		return nil, metadata.ErrNoResults
	}
	return s, nil
}

func (f *fakeMeta) ImageURL(s *metadata.Series) string {
	if s == nil || s.BackdropPath == "" {
		return ""
	}
	return "https://img/original" + s.BackdropPath
}

type fakeSettings struct {
	settings map[int64]storage.ChannelSetting
}

func (f *fakeSettings) ChannelForAdmin(ctx context.Context, adminID int64) (storage.ChannelSetting, error) {
	s, ok := f.settings[adminID]
	if !ok {
		return storage.ChannelSetting{}, storage.ErrNoChannel
	}
	return s, nil
}

func (f *fakeSettings) SetChannel(ctx context.Context, adminID, channelID int64, username string) error {
	s := f.settings[adminID]
	s.AdminID = adminID
	s.ChannelID = channelID
	s.ChannelUsername = username
	f.settings[adminID] = s
	return nil
}

func (f *fakeSettings) SetSticker(ctx context.Context, adminID int64, stickerID string) error {
	s, ok := f.settings[adminID]
	if !ok {
		return storage.ErrNoChannel
	}
	s.StickerID = stickerID
	f.settings[adminID] = s
	return nil
}

type auditLine struct {
	actorID int64
	action  string
	ok      bool
	detail  string
}

type fakeAudit struct {
	mu    sync.Mutex
	lines []auditLine
}

func (f *fakeAudit) Success(actorID int64, actorLabel, action, detail string) {
	f.mu.Lock()
	f.lines = append(f.lines, auditLine{actorID, action, true, detail})
	f.mu.Unlock()
}

func (f *fakeAudit) Failure(actorID int64, actorLabel, action, errDetail string) {
	f.mu.Lock()
	f.lines = append(f.lines, auditLine{actorID, action, false, errDetail})
	f.mu.Unlock()
}

const (
	adminID   = int64(42)
	adminChat = int64(100)
	channelID = int64(-100123)
)

type fixture struct {
	bot      *Bot
	adapter  *fakeAdapter
	meta     *fakeMeta
	settings *fakeSettings
	audit    *fakeAudit
	cache    *session.Manager
}

func attackTitan() *metadata.Series {
	return &metadata.Series{
		ID:              1429,
		Name:            "Attack on Titan",
		FirstAirDate:    "2013-04-07",
		NumberOfSeasons: 4,
		EpisodeRunTime:  []int{24},
		Genres:          []metadata.Genre{{ID: 16, Name: "Animation"}},
		Seasons:         []metadata.Season{{SeasonNumber: 1, EpisodeCount: 25}},
		BackdropPath:    "/bd.jpg",
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	adapter := &fakeAdapter{}
	meta := &fakeMeta{
		pages: map[int]*metadata.SearchPage{
			1: {
				Page:         1,
				Results:      []metadata.Candidate{{ID: 1429, Name: "Attack on Titan", FirstAirDate: "2013-04-07"}},
				TotalPages:   1,
				TotalResults: 1,
			},
		},
		series: map[int64]*metadata.Series{1429: attackTitan()},
	}
	settings := &fakeSettings{settings: map[int64]storage.ChannelSetting{
		adminID: {AdminID: adminID, ChannelID: channelID, ChannelUsername: "mychannel", StickerID: "stick1"},
	}}
	rec := &fakeAudit{}
	cache := session.NewManager(session.Config{}, logx.Nop())

	b := New(Config{AdminIDs: []int64{adminID}}, adapter, meta, settings, rec, cache, logx.Nop())
	t.Cleanup(func() { b.Shutdown(context.Background()) })
	return &fixture{bot: b, adapter: adapter, meta: meta, settings: settings, audit: rec, cache: cache}
}

func (fx *fixture) command(text string) {
	fx.bot.handle(context.Background(), kit.Update{
		Kind: kit.UpdateMessage,
		Message: &kit.Message{
			ID: 1, ChatID: adminChat, FromID: adminID,
			FromName: "Alice", FromUsername: "alice", Text: text,
		},
	})
}

func (fx *fixture) callback(from int64, data string) {
	fx.bot.handle(context.Background(), kit.Update{
		Kind: kit.UpdateCallback,
		Callback: &kit.Callback{
			ID: "cb1", FromID: from, FromName: "Alice", FromUsername: "alice",
			ChatID: adminChat, MessageID: 2, Data: data,
		},
	})
}

// publishFlow drives search, selection, and confirmation, returning the
// published post id.
func (fx *fixture) publishFlow(t *testing.T, command string) string {
	t.Helper()
	fx.command(command)

	list := fx.adapter.last(t, "SendText")
	if !strings.Contains(list.text, "Found 1 results") {
		t.Fatalf("expected candidate list, got %q", list.text)
	}
	fx.callback(adminID, findData(t, list.markup, "pick"))

	confirm := fx.adapter.last(t, "SendText")
	if !strings.Contains(confirm.text, "post this to your channel") {
		t.Fatalf("expected confirmation prompt, got %q", confirm.text)
	}
	fx.callback(adminID, findData(t, confirm.markup, "ok"))

	posts := fx.cache.ListForAdmin(adminID, 10)
	if len(posts) != 1 {
		t.Fatalf("expected 1 published post, got %d", len(posts))
	}
	return posts[0].ID
}

func TestPublishWorkflow(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	postID := fx.publishFlow(t, "/tvpost Attack Titan | Season 1 = https://t.me/s1 | Season 2 = placeholder")

	channel := fx.adapter.channelCalls(channelID)
	if len(channel) != 2 {
		t.Fatalf("expected post + sticker in channel, got %d calls", len(channel))
	}
	if channel[0].method != "SendPhoto" {
		t.Fatalf("expected photo post, got %s", channel[0].method)
	}
	if !strings.Contains(channel[0].text, "Attack on Titan (2013)") {
		t.Fatalf("caption missing title: %q", channel[0].text)
	}
	if channel[1].method != "SendSticker" || channel[1].stickerID != "stick1" {
		t.Fatalf("expected trailing sticker, got %+v", channel[1])
	}

	// The deferred button carries the real post key.
	if got, want := findData(t, channel[0].markup, "fill"), "fill:"+postID+"_1"; got != want {
		t.Fatalf("deferred button data %q, want %q", got, want)
	}

	post, err := fx.cache.Post(postID)
	if err != nil {
		t.Fatalf("published post not in registry: %v", err)
	}
	if post.MessageID != channel[0].messageID || post.ChannelID != channelID {
		t.Fatalf("registry does not point at the channel message: %+v", post)
	}
	if _, err := fx.cache.Draft(postID); err != session.ErrNotFound {
		t.Fatalf("draft should be gone after publish, got %v", err)
	}

	done := fx.adapter.last(t, "EditText")
	if !strings.Contains(done.text, postID) {
		t.Fatalf("confirmation should name the post id: %q", done.text)
	}
}

func TestTVPostRequiresChannel(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	delete(fx.settings.settings, adminID)

	fx.command("/tvpost Attack Titan | Season 1 = x")

	reply := fx.adapter.last(t, "SendText")
	if !strings.Contains(reply.text, "/setchannel") {
		t.Fatalf("expected setchannel hint, got %q", reply.text)
	}
	if len(fx.meta.queries) != 0 {
		t.Fatalf("provider should not be queried without a channel: %v", fx.meta.queries)
	}
}

func TestTVPostUsageWithoutPipes(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	fx.command("/tvpost Attack Titan")

	reply := fx.adapter.last(t, "SendText")
	if !strings.Contains(reply.text, "/tvpost Series Name | Season 1 = link1") {
		t.Fatalf("expected usage text, got %q", reply.text)
	}
}

func TestNonAdminIsRejected(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	fx.bot.handle(context.Background(), kit.Update{
		Kind: kit.UpdateMessage,
		Message: &kit.Message{
			ID: 1, ChatID: 200, FromID: 7, FromName: "Eve", FromUsername: "eve",
			Text: "/tvpost Attack Titan | Season 1 = x",
		},
	})

	reply := fx.adapter.last(t, "SendText")
	if !strings.Contains(reply.text, "Only admins") {
		t.Fatalf("expected admin rejection, got %q", reply.text)
	}
	if len(fx.meta.queries) != 0 {
		t.Fatalf("provider queried for non-admin: %v", fx.meta.queries)
	}
}

// The config watcher swaps the allowlist while Dispatch is handling
// updates; both sides must be safe under the race detector.
func TestSetAdminsDuringDispatch(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			fx.bot.SetAdmins([]int64{adminID, int64(1000 + i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			fx.command("/help")
		}
	}()
	wg.Wait()

	fx.bot.SetAdmins([]int64{99})
	if fx.bot.isAdmin(adminID) {
		t.Fatal("revoked admin still in allowlist")
	}
	if !fx.bot.isAdmin(99) {
		t.Fatal("reloaded admin not in allowlist")
	}
}

func TestAddLinkUnknownSeasonNoTransportCall(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	postID := fx.publishFlow(t, "/tvpost Attack Titan | Season 1 = https://t.me/s1 | Season 2 = placeholder")

	before := len(fx.adapter.channelCalls(channelID))
	fx.command("/addlink " + postID + " | Season 9 = https://t.me/s9")

	reply := fx.adapter.last(t, "SendText")
	if !strings.Contains(reply.text, "Season 9") || !strings.Contains(reply.text, "not found") {
		t.Fatalf("expected unknown-season rejection, got %q", reply.text)
	}
	if got := len(fx.adapter.channelCalls(channelID)); got != before {
		t.Fatalf("channel message touched on rejected edit: %d -> %d", before, got)
	}
	post, _ := fx.cache.Post(postID)
	if post.Links[1].Target != "placeholder" {
		t.Fatalf("registry changed on rejected edit: %+v", post.Links)
	}
}

func TestAddLinkUpdatesChannelMessage(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	postID := fx.publishFlow(t, "/tvpost Attack Titan | Season 1 = https://t.me/s1 | Season 2 = placeholder")

	fx.command("/addlink " + postID + " | season 2 = https://t.me/s2")

	edit := fx.adapter.last(t, "EditCaption")
	if edit.chatID != channelID {
		t.Fatalf("edit went to chat %d, want channel", edit.chatID)
	}
	found := false
	for _, row := range edit.markup.InlineKeyboard {
		for _, btn := range row {
			if btn.Text == "Season 2" && btn.URL == "https://t.me/s2" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("edited markup missing resolved Season 2 button")
	}

	post, _ := fx.cache.Post(postID)
	if post.Links[1].Target != "https://t.me/s2" {
		t.Fatalf("registry not committed after edit: %+v", post.Links)
	}
}

func TestAddLinkWrongOwner(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	postID := fx.publishFlow(t, "/tvpost Attack Titan | Season 1 = https://t.me/s1")

	fx.bot.SetAdmins([]int64{adminID, 7})
	fx.bot.handle(context.Background(), kit.Update{
		Kind: kit.UpdateMessage,
		Message: &kit.Message{
			ID: 9, ChatID: 300, FromID: 7, FromName: "Bob", FromUsername: "bob",
			Text: "/addlink " + postID + " | Season 1 = https://evil",
		},
	})

	reply := fx.adapter.last(t, "SendText")
	if !strings.Contains(reply.text, "posts you created") {
		t.Fatalf("expected ownership rejection, got %q", reply.text)
	}
	post, _ := fx.cache.Post(postID)
	if post.Links[0].Target != "https://t.me/s1" {
		t.Fatalf("foreign edit applied: %+v", post.Links)
	}
}

func TestExpiredSessionCallback(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	fx.callback(adminID, "pick:1429_tvq42_123")

	if len(fx.adapter.answers) == 0 || !strings.Contains(fx.adapter.answers[len(fx.adapter.answers)-1], "Session expired") {
		t.Fatalf("expected session-expired toast, got %v", fx.adapter.answers)
	}
}

func TestTransportFailureKeepsDraft(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	fx.command("/tvpost Attack Titan | Season 1 = https://t.me/s1")

	list := fx.adapter.last(t, "SendText")
	fx.callback(adminID, findData(t, list.markup, "pick"))
	confirm := fx.adapter.last(t, "SendText")
	okData := findData(t, confirm.markup, "ok")

	fx.adapter.mu.Lock()
	fx.adapter.failSend = errors.New("forbidden: bot is not a member")
	fx.adapter.mu.Unlock()
	fx.callback(adminID, okData)

	fail := fx.adapter.last(t, "EditText")
	if !strings.Contains(fail.text, "check bot permissions") {
		t.Fatalf("expected retry hint, got %q", fail.text)
	}

	// The draft survived; a retry publishes.
	fx.adapter.mu.Lock()
	fx.adapter.failSend = nil
	fx.adapter.mu.Unlock()
	fx.callback(adminID, okData)

	if got := len(fx.cache.ListForAdmin(adminID, 10)); got != 1 {
		t.Fatalf("retry did not publish: %d posts", got)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	fx.command("/tvpost Attack Titan | Season 1 = https://t.me/s1")

	list := fx.adapter.last(t, "SendText")
	fx.callback(adminID, findData(t, list.markup, "pick"))
	confirm := fx.adapter.last(t, "SendText")
	noData := findData(t, confirm.markup, "no")

	fx.callback(adminID, noData)

	cancelled := fx.adapter.last(t, "EditText")
	if !strings.Contains(cancelled.text, "cancelled") {
		t.Fatalf("expected cancel notice, got %q", cancelled.text)
	}
	draftID := strings.TrimPrefix(noData, "no:")
	if _, err := fx.cache.Draft(draftID); err != session.ErrNotFound {
		t.Fatalf("draft survived cancel: %v", err)
	}
	if len(fx.adapter.channelCalls(channelID)) != 0 {
		t.Fatalf("cancelled draft reached the channel")
	}
}

func TestFillPromptFlow(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	postID := fx.publishFlow(t, "/tvpost Attack Titan | Season 1 = https://t.me/s1 | Season 2 = placeholder")

	// A non-owner tapping the deferred button only gets a toast.
	fx.callback(7, "fill:"+postID+"_1")
	if got := fx.adapter.answers[len(fx.adapter.answers)-1]; !strings.Contains(got, "coming soon") {
		t.Fatalf("expected coming-soon toast for non-owner, got %q", got)
	}

	// The owner gets a DM asking for the link.
	fx.callback(adminID, "fill:"+postID+"_1")
	dm := fx.adapter.last(t, "SendText")
	if dm.chatID != adminID || !strings.Contains(dm.text, "Season 2") {
		t.Fatalf("expected DM prompt for Season 2, got %+v", dm)
	}

	// A bad reply re-arms the prompt.
	fx.command("not a link")
	if reply := fx.adapter.last(t, "SendText"); !strings.Contains(reply.text, "http(s)") {
		t.Fatalf("expected link validation error, got %q", reply.text)
	}

	fx.command("https://t.me/s2")
	edit := fx.adapter.last(t, "EditCaption")
	if edit.chatID != channelID {
		t.Fatalf("fill edit went to chat %d", edit.chatID)
	}
	post, _ := fx.cache.Post(postID)
	if post.Links[1].Target != "https://t.me/s2" {
		t.Fatalf("fill not committed: %+v", post.Links)
	}

	// Prompt is consumed; further text is ignored.
	before := len(fx.adapter.calls)
	fx.command("https://t.me/other")
	if len(fx.adapter.calls) != before {
		t.Fatalf("free text without a prompt triggered transport calls")
	}
}

func TestListPosts(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	postID := fx.publishFlow(t, "/tvpost Attack Titan | Season 1 = https://t.me/s1")

	fx.command("/listposts")
	reply := fx.adapter.last(t, "SendText")
	if !strings.Contains(reply.text, postID) || !strings.Contains(reply.text, "Attack on Titan") {
		t.Fatalf("list missing post: %q", reply.text)
	}
}

func TestSetChannelAndSticker(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	delete(fx.settings.settings, adminID)

	fx.command("/setchannel -100999 @newchan")
	if got := fx.settings.settings[adminID]; got.ChannelID != -100999 || got.ChannelUsername != "newchan" {
		t.Fatalf("channel not stored: %+v", got)
	}

	fx.command("/setsticker stickerXYZ")
	if got := fx.settings.settings[adminID]; got.StickerID != "stickerXYZ" {
		t.Fatalf("sticker not stored: %+v", got)
	}
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		cmd  string
		args string
	}{
		{"/tvpost Attack Titan | Season 1 = x", "tvpost", "Attack Titan | Season 1 = x"},
		{"/listposts", "listposts", ""},
		{"/help@seriesbot", "help", ""},
		{"plain text", "", "plain text"},
		{"  /TVPOST  abc ", "tvpost", "abc"},
	}
	for _, tt := range tests {
		cmd, args := splitCommand(tt.in)
		if cmd != tt.cmd || args != tt.args {
			t.Fatalf("splitCommand(%q) = (%q, %q), want (%q, %q)", tt.in, cmd, args, tt.cmd, tt.args)
		}
	}
}

func TestSplitTail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		head string
		n    int
		ok   bool
	}{
		{"tvq42_1700000000_2", "tvq42_1700000000", 2, true},
		{"tvp42_1700000000_0", "tvp42_1700000000", 0, true},
		{"noseparator", "", 0, false},
		{"trailing_", "", 0, false},
		{"_5", "", 0, false},
	}
	for _, tt := range tests {
		head, n, ok := splitTail(tt.in)
		if head != tt.head || n != tt.n || ok != tt.ok {
			t.Fatalf("splitTail(%q) = (%q, %d, %v), want (%q, %d, %v)", tt.in, head, n, ok, tt.head, tt.n, tt.ok)
		}
	}
}
