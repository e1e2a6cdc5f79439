package bot

import (
	"context"
	"fmt"

	"seriesbot/internal/compose"
	kit "seriesbot/internal/transport"
	"seriesbot/pkg/logx"
	"seriesbot/pkg/tgui"
)

// handleConfirm publishes the draft to its target channel, registers
// the published post under the same key, and deletes the draft. On a
// transport failure the draft stays so the admin can retry.
func (b *Bot) handleConfirm(ctx context.Context, req *request) error {
	draftID := req.payload
	draft, err := b.cache.Draft(draftID)
	if err != nil {
		_ = b.adapter.AnswerCallback(ctx, req.callbackID, "❌ Post data not found")
		return b.adapter.EditText(ctx, req.ref(), "Unable to find post data. Please create a new post.", nil)
	}

	// The channel message carries the real post key so its deferred
	// buttons can be filled later.
	final := compose.Compose(&draft.Series, draft.Links, draftID)
	channel := kit.ChatTarget{ChatID: draft.ChannelID}

	sent, err := b.sendPost(ctx, channel, final, draft.ImageURL)
	if err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionPublish, err.Error())
		_ = b.adapter.AnswerCallback(ctx, req.callbackID, "❌ Error sending post")
		return b.adapter.EditText(ctx, req.ref(),
			"Error sending post to channel. Please check bot permissions and try again.", nil)
	}

	// Trailing sticker is decoration: log and swallow failures.
	if setting, serr := b.store.ChannelForAdmin(ctx, req.fromID); serr == nil && setting.StickerID != "" {
		if _, serr := b.adapter.SendSticker(ctx, channel, setting.StickerID); serr != nil {
			b.log.Warn("sticker send failed", logx.Int64("channel", draft.ChannelID), logx.Err(serr))
		}
	}

	postID := b.cache.Publish(draft, sent.MessageID, req.fromID)
	b.cache.RemoveDraft(draftID)

	_ = b.adapter.AnswerCallback(ctx, req.callbackID, "✅ Post sent to channel!")
	done := fmt.Sprintf("✅ Post for %s has been sent to %s successfully!\n\n🔗 Use %s to edit its buttons later.",
		tgui.B(draft.Series.Name), tgui.Esc(draft.ChannelLabel),
		tgui.Code("/addlink "+postID+" | Season X = link"))
	if err := b.adapter.EditText(ctx, req.ref(), done, &kit.SendOptions{ParseMode: "HTML", DisablePreview: true}); err != nil {
		return err
	}

	b.audit.Success(req.fromID, req.fromLabel, actionPublish,
		fmt.Sprintf("posted %s to channel %s", draft.Series.Name, draft.ChannelLabel))
	return nil
}

// handleCancel discards the draft. Terminal.
func (b *Bot) handleCancel(ctx context.Context, req *request) error {
	b.cache.RemoveDraft(req.payload)
	_ = b.adapter.AnswerCallback(ctx, req.callbackID, "Post cancelled")
	if err := b.adapter.EditText(ctx, req.ref(), "❌ Post cancelled.", nil); err != nil {
		return err
	}
	b.janitor.DeleteAfter(req.ref(), b.cfg.NoticeCleanup)
	return nil
}

// handleInert answers throwaway callbacks (page indicator, pre-publish
// placeholder buttons) so the client stops its spinner.
func (b *Bot) handleInert(ctx context.Context, req *request) error {
	return b.adapter.AnswerCallback(ctx, req.callbackID, "")
}
