package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seriesbot/internal/storage"
	"seriesbot/pkg/tgui"
)

const (
	actionSetChannel = "setchannel"
	actionSetSticker = "setsticker"
)

// handleSetChannel records the admin's target channel. The bot must be
// an admin of that channel for posting to work; that is only verified
// at send time.
func (b *Bot) handleSetChannel(ctx context.Context, req *request) error {
	fields := strings.Fields(req.args)
	if len(fields) == 0 {
		return b.reply(ctx, req, "Please use the format: /setchannel channel_id [@channel_username]\n\n"+
			"Example: /setchannel -1001234567890 @mychannel")
	}
	channelID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return b.reply(ctx, req, "❌ Invalid channel id. It should be a number like -1001234567890.")
	}
	username := ""
	if len(fields) > 1 {
		username = strings.TrimPrefix(fields[1], "@")
	}

	if err := b.store.SetChannel(ctx, req.fromID, channelID, username); err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionSetChannel, err.Error())
		return b.reply(ctx, req, "❌ Could not save the channel. Please try again.")
	}

	label := strconv.FormatInt(channelID, 10)
	if username != "" {
		label = "@" + username
	}
	b.audit.Success(req.fromID, req.fromLabel, actionSetChannel, "channel set to "+label)
	return b.reply(ctx, req, fmt.Sprintf("✅ Channel set to %s. New posts will go there.", tgui.B(label)))
}

// handleSetSticker records the sticker sent after each published post.
func (b *Bot) handleSetSticker(ctx context.Context, req *request) error {
	stickerID := strings.TrimSpace(req.args)
	if stickerID == "" {
		return b.reply(ctx, req, "Please use the format: /setsticker sticker_file_id")
	}

	err := b.store.SetSticker(ctx, req.fromID, stickerID)
	if errors.Is(err, storage.ErrNoChannel) {
		return b.reply(ctx, req, "❌ No channel set. Please use /setchannel first.")
	}
	if err != nil {
		b.audit.Failure(req.fromID, req.fromLabel, actionSetSticker, err.Error())
		return b.reply(ctx, req, "❌ Could not save the sticker. Please try again.")
	}

	b.audit.Success(req.fromID, req.fromLabel, actionSetSticker, "sticker updated")
	return b.reply(ctx, req, "✅ Sticker saved. It will follow every published post.")
}

func (b *Bot) handleHelp(ctx context.Context, req *request) error {
	text := tgui.B("📺 TV series posting bot").String() + "\n\n" +
		tgui.Code("/tvpost Name | Season 1 = link | ...").String() + " — search and publish a post\n" +
		tgui.Code("/addlink post_id | Season 1 = link").String() + " — update buttons on a published post\n" +
		tgui.Code("/listposts").String() + " — your recent posts and their ids\n" +
		tgui.Code("/setchannel channel_id [@username]").String() + " — choose the target channel\n" +
		tgui.Code("/setsticker sticker_file_id").String() + " — sticker sent after each post\n\n" +
		"Use " + tgui.Code("placeholder").String() + " as a link value to fill it in later from the post itself."
	return b.reply(ctx, req, text)
}
