package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seriesbot/internal/compose"
	"seriesbot/internal/session"
	kit "seriesbot/internal/transport"
	"seriesbot/pkg/logx"
	"seriesbot/pkg/tgui"
)

const addlinkUsage = "Please use the format: /addlink post_id | Season 1 = link1 | Season 2 = link2 | ...\n\n" +
	"Use /listposts to see your post ids."

// handleAddLink edits the season buttons of an already published post.
// Labels are resolved against the live post before anything is sent;
// the registry is committed only after the channel message edit
// succeeded, so a transport failure leaves the post retryable as-is.
func (b *Bot) handleAddLink(ctx context.Context, req *request) error {
	b.janitor.DeleteAfter(req.ref(), b.cfg.CommandCleanup)

	if !strings.Contains(req.args, "|") {
		return b.reply(ctx, req, addlinkUsage)
	}
	parts := splitPipes(req.args)
	postID := parts[0]
	if postID == "" || len(parts) < 2 {
		return b.reply(ctx, req, addlinkUsage)
	}
	updates, err := compose.ParseLinks(parts[1:])
	if err != nil {
		return b.reply(ctx, req, "❌ "+err.Error())
	}

	post, err := b.cache.Post(postID)
	if err != nil {
		return b.reply(ctx, req, "❌ Post not found or expired. Use /listposts to see your active posts.")
	}
	if post.AdminID != req.fromID {
		b.audit.Failure(req.fromID, req.fromLabel, actionEditLink, "not owner of "+postID)
		return b.reply(ctx, req, "❌ You can only edit posts you created.")
	}

	merged, err := b.cache.ResolveLinks(postID, req.fromID, updates)
	var unknown *session.UnknownLabelError
	var ambiguous *session.AmbiguousLabelError
	switch {
	case errors.As(err, &unknown), errors.As(err, &ambiguous):
		return b.reply(ctx, req, "❌ "+err.Error())
	case err != nil:
		return b.reply(ctx, req, "❌ Post not found or expired. Use /listposts to see your active posts.")
	}

	rendered := compose.Compose(&post.Series, merged, postID)
	ref := kit.MessageRef{ChatID: post.ChannelID, MessageID: post.MessageID}
	if err := b.editPost(ctx, ref, rendered, post.ImageURL); err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionEditLink, err.Error())
		return b.reply(ctx, req, "❌ Error updating the channel post. Please check bot permissions and try again.")
	}

	if _, err := b.cache.UpdateLinks(postID, req.fromID, updates); err != nil {
		// Expired between render and commit: the live message already
		// shows the new links, so only the cache copy is stale.
		b.log.Warn("link commit after edit failed", logx.String("post", postID), logx.Err(err))
	}

	b.audit.Success(req.fromID, req.fromLabel, actionEditLink,
		fmt.Sprintf("updated %d link(s) on %s", len(updates), postID))
	return b.reply(ctx, req, fmt.Sprintf("✅ Updated %d link(s) for %s.", len(updates), tgui.B(post.Series.Name)))
}

// handleListPosts shows the admin's recent posts with the ids the edit
// commands take.
func (b *Bot) handleListPosts(ctx context.Context, req *request) error {
	summaries := b.cache.ListForAdmin(req.fromID, 10)
	if len(summaries) == 0 {
		return b.reply(ctx, req, "You have no active posts. Posts stay editable for 24 hours after publishing.")
	}

	var sb strings.Builder
	sb.WriteString(tgui.B("📋 Your recent posts").String() + "\n\n")
	for i, s := range summaries {
		fmt.Fprintf(&sb, "%d. %s\n   %s · %s\n",
			i+1, tgui.Esc(s.SeriesName), tgui.Code(s.ID), s.PublishedAt.Format("Jan 2 15:04"))
	}
	sb.WriteString("\nEdit with " + tgui.Code("/addlink post_id | Season X = link").String())

	b.audit.Success(req.fromID, req.fromLabel, actionList, fmt.Sprintf("%d post(s)", len(summaries)))
	return b.reply(ctx, req, sb.String())
}
