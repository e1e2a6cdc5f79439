package bot

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"seriesbot/internal/compose"
	kit "seriesbot/internal/transport"
	"seriesbot/pkg/logx"
	"seriesbot/pkg/tgui"
)

// handleFillTap reacts to an admin tapping a deferred button on the
// live channel post: it arms a prompt and asks for the link in a
// private message. Non-owners only get a toast.
func (b *Bot) handleFillTap(ctx context.Context, req *request) error {
	postID, idx, ok := splitTail(req.payload)
	if !ok {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "")
	}

	post, perr := b.cache.Post(postID)
	if perr != nil {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "❌ This post is no longer editable")
	}
	if post.AdminID != req.fromID {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "Link coming soon!")
	}
	if idx < 0 || idx >= len(post.Links) {
		return b.adapter.AnswerCallback(ctx, req.callbackID, "")
	}

	label := post.Links[idx].Label
	b.cache.SetPrompt(req.fromID, postID, idx, label)
	_ = b.adapter.AnswerCallback(ctx, req.callbackID, "Check your private chat")

	dm := kit.ChatTarget{ChatID: req.fromID}
	text := fmt.Sprintf("🔗 Send the link for %s of %s as your next message.",
		tgui.B(label), tgui.B(post.Series.Name))
	_, err := b.adapter.SendText(ctx, dm, text, &kit.SendOptions{ParseMode: "HTML", DisablePreview: true})
	return err
}

// handlePromptReply consumes a pending fill prompt with the admin's
// free-text message. Plain text without a pending prompt is ignored.
func (b *Bot) handlePromptReply(ctx context.Context, req *request) error {
	prompt, ok := b.cache.TakePrompt(req.fromID)
	if !ok {
		return nil
	}

	link := strings.TrimSpace(req.args)
	if !validLink(link) {
		// Re-arm so the admin can just send the link again.
		b.cache.SetPrompt(prompt.AdminID, prompt.PostID, prompt.Index, prompt.Label)
		return b.reply(ctx, req, "❌ That doesn't look like a link. Please send a full http(s) URL.")
	}

	post, err := b.cache.Post(prompt.PostID)
	if err != nil {
		return b.reply(ctx, req, "❌ This post is no longer editable.")
	}

	// Render from a local merge first; commit only after the channel
	// message edit went through.
	links := post.Links
	links[prompt.Index].Target = link
	rendered := compose.Compose(&post.Series, links, prompt.PostID)
	ref := kit.MessageRef{ChatID: post.ChannelID, MessageID: post.MessageID}
	if err := b.editPost(ctx, ref, rendered, post.ImageURL); err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionEditLink, err.Error())
		b.cache.SetPrompt(prompt.AdminID, prompt.PostID, prompt.Index, prompt.Label)
		return b.reply(ctx, req, "❌ Error updating the channel post. Please check bot permissions and send the link again.")
	}

	if _, err := b.cache.SetLinkAt(prompt.PostID, req.fromID, prompt.Index, link); err != nil {
		b.log.Warn("link commit after fill failed", logx.String("post", prompt.PostID), logx.Err(err))
	}

	b.audit.Success(req.fromID, req.fromLabel, actionEditLink,
		fmt.Sprintf("filled %q on %s", prompt.Label, prompt.PostID))
	return b.reply(ctx, req, fmt.Sprintf("✅ %s of %s has been updated.",
		tgui.B(prompt.Label), tgui.B(post.Series.Name)))
}

func validLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
