package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seriesbot/internal/compose"
	"seriesbot/internal/storage"
	"seriesbot/pkg/tgui"
)

const (
	actionTVPost   = "tvpost"
	actionSelect   = "tvpost select"
	actionPublish  = "tvpost publish"
	actionEditLink = "addlink"
	actionList     = "listposts"
)

const tvpostUsage = "Please use the format: /tvpost Series Name | Season 1 = link1 | Season 2 = link2 | ...\n\n" +
	"Note: you can use \"placeholder\" as a link value to add links later dynamically"

// handleTVPost starts the workflow: parse the command, require a
// configured channel, search the provider, and open a search session.
func (b *Bot) handleTVPost(ctx context.Context, req *request) error {
	b.janitor.DeleteAfter(req.ref(), b.cfg.CommandCleanup)

	if !strings.Contains(req.args, "|") {
		return b.reply(ctx, req, tvpostUsage)
	}
	parts := splitPipes(req.args)
	query := parts[0]
	if query == "" {
		return b.reply(ctx, req, tvpostUsage)
	}
	links, err := compose.ParseLinks(parts[1:])
	if err != nil {
		return b.reply(ctx, req, "❌ "+err.Error())
	}

	// Only existence matters here; the draft snapshots the channel at
	// selection time.
	if _, err := b.store.ChannelForAdmin(ctx, req.fromID); err != nil {
		if errors.Is(err, storage.ErrNoChannel) {
			b.audit.Failure(req.fromID, req.fromLabel, actionTVPost, "no channel set")
			return b.reply(ctx, req, "❌ No channel set. Please use /setchannel first.")
		}
		b.audit.Failure(req.fromID, req.fromLabel, actionTVPost, err.Error())
		return b.reply(ctx, req, "❌ Could not load your channel settings. Please try again.")
	}

	notice, noticeErr := b.adapter.SendText(ctx, req.chat, "⌛ Searching for TV series...", nil)

	page, err := b.meta.Search(ctx, query, 1)
	if noticeErr == nil {
		_ = b.adapter.DeleteMessage(ctx, notice)
	}
	if err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionTVPost, fmt.Sprintf("no TV series found for: %s", query))
		return b.reply(ctx, req, fmt.Sprintf("❌ No TV series found for: %q", query))
	}

	id := b.cache.CreateSession(req.fromID, query, links, page)
	sess, err := b.cache.Session(id)
	if err != nil {
		return err
	}

	_, err = b.adapter.SendText(ctx, req.chat, candidateText(sess, page.TotalResults), htmlOpts(candidateMarkup(id, sess)))
	if err != nil {
		return err
	}
	b.audit.Success(req.fromID, req.fromLabel, actionTVPost,
		fmt.Sprintf("searched %q, found %d results", query, page.TotalResults))
	return nil
}

// handlePage re-queries the provider for the requested page and mutates
// the session in place. A cache miss ends the flow with an expiry
// notice, never an error.
func (b *Bot) handlePage(ctx context.Context, req *request) error {
	sessionID, pageNo, ok := splitTail(req.payload)
	if !ok {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}

	sess, err := b.cache.Session(sessionID)
	if err != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}
	if pageNo < 1 || (sess.TotalPages > 0 && pageNo > sess.TotalPages) {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "")
	}

	page, err := b.meta.Search(ctx, sess.Query, pageNo)
	if err != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "No results found on this page")
	}
	if err := b.cache.AdvancePage(sessionID, page); err != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}
	sess, err = b.cache.Session(sessionID)
	if err != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}

	if err := b.adapter.EditText(ctx, req.ref(), candidateText(sess, page.TotalResults), htmlOpts(candidateMarkup(sessionID, sess))); err != nil {
		return err
	}
	return b.adapter.AnswerCallback(ctx, req.callbackID, "")
}

// handlePick consumes the session: fetch full detail, compose the
// preview, and park a draft behind Confirm/Cancel controls.
func (b *Bot) handlePick(ctx context.Context, req *request) error {
	seriesRaw, sessionID, ok := strings.Cut(req.payload, "_")
	if !ok {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}
	seriesID, err := strconv.ParseInt(seriesRaw, 10, 64)
	if err != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}

	sess, err := b.cache.Session(sessionID)
	if err != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Session expired. Please search again.")
	}

	_ = b.adapter.AnswerCallback(ctx, req.callbackID, "Loading TV series details...")
	_ = b.adapter.EditText(ctx, req.ref(), "⌛ Fetching TV series details...", nil)

	series, err := b.meta.Detail(ctx, seriesID)
	if err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionSelect, err.Error())
		return b.adapter.EditText(ctx, req.ref(), "❌ Error fetching TV series details. Please try again.", nil)
	}

	setting, err := b.store.ChannelForAdmin(ctx, req.fromID)
	if err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionSelect, err.Error())
		return b.adapter.EditText(ctx, req.ref(), "❌ No channel set. Please use /setchannel first.", nil)
	}

	// Preview buttons carry temporary ids; the real post key is stamped
	// in at publish time.
	preview := compose.Compose(series, sess.Links, "")
	imageURL := b.meta.ImageURL(series)

	draftID := b.cache.CreateDraft(req.fromID, *series, sess.Links, imageURL, preview, setting.ChannelID, setting.Label())

	previewPost := preview
	previewPost.Caption = tgui.B("Preview:").String() + "\n\n" + preview.Caption +
		"\n\n" + tgui.I("Ready to post to "+setting.Label()).String()
	if _, err := b.sendPost(ctx, req.chat, previewPost, imageURL); err != nil {
		return err
	}

	confirm := tgui.NewInline().Row(
		tgui.Btn("✅ Post to Channel", tgui.Data("ok", draftID)),
		tgui.Btn("❌ Cancel", tgui.Data("no", draftID)),
	)
	if _, err := b.adapter.SendText(ctx, req.chat, "Would you like to post this to your channel?", htmlOpts(confirm.Markup())); err != nil {
		return err
	}

	b.cache.RemoveSession(sessionID)
	b.audit.Success(req.fromID, req.fromLabel, actionSelect, "created post preview for "+series.Name)
	return nil
}

// splitPipes splits "a | b | c" into trimmed parts.
func splitPipes(s string) []string {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitTail splits "<id>_<n>" on the last underscore.
func splitTail(s string) (head string, n int, ok bool) {
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return "", 0, false
	}
	v, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, false
	}
	return s[:i], v, true
}
