package bot

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"seriesbot/internal/compose"
	"seriesbot/internal/session"
	kit "seriesbot/internal/transport"
	"seriesbot/pkg/tgui"
)

func htmlOpts(markup *tele.ReplyMarkup) *kit.SendOptions {
	return &kit.SendOptions{ParseMode: "HTML", DisablePreview: true, ReplyMarkup: markup}
}

// postMarkup converts the composer's neutral button grid to Telegram
// inline markup.
func postMarkup(rows [][]compose.Button) *tele.ReplyMarkup {
	kb := tgui.NewInline()
	for _, row := range rows {
		btns := make([]tele.Btn, 0, len(row))
		for _, btn := range row {
			if btn.URL != "" {
				btns = append(btns, tgui.URLBtn(btn.Text, btn.URL))
			} else {
				btns = append(btns, tgui.Btn(btn.Text, btn.Data))
			}
		}
		kb.Row(btns...)
	}
	return kb.Markup()
}

// candidateMarkup renders the numbered result list: one candidate per
// row, plus a pagination row when the provider reports more than one
// page. Previous/Next are suppressed at the boundaries.
func candidateMarkup(sessionID string, s session.SearchSession) *tele.ReplyMarkup {
	kb := tgui.NewInline()
	for _, c := range s.Results {
		text := fmt.Sprintf("%s (%s)", c.Name, c.FirstAirYear())
		data := tgui.Data("pick", strconv.FormatInt(c.ID, 10)+"_"+sessionID)
		kb.Row(tgui.Btn(text, data))
	}
	if s.TotalPages > 1 {
		row := make([]tele.Btn, 0, 3)
		if s.Page > 1 {
			row = append(row, tgui.Btn("◀️ Previous", tgui.Data("page", sessionID+"_"+strconv.Itoa(s.Page-1))))
		}
		row = append(row, tgui.Btn(fmt.Sprintf("%d/%d", s.Page, s.TotalPages), tgui.Data("noop", "")))
		if s.Page < s.TotalPages {
			row = append(row, tgui.Btn("Next ▶️", tgui.Data("page", sessionID+"_"+strconv.Itoa(s.Page+1))))
		}
		kb.Row(row...)
	}
	return kb.Markup()
}

func candidateText(s session.SearchSession, totalResults int) string {
	if s.TotalPages > 1 {
		return fmt.Sprintf("📺 Found %d results for %q (Page %d/%d)\n\nPlease select a TV series:",
			totalResults, s.Query, s.Page, s.TotalPages)
	}
	return fmt.Sprintf("📺 Found %d results for %q\n\nPlease select a TV series:", totalResults, s.Query)
}

// sendPost delivers a composed post: photo with caption when a cover
// image exists, plain text otherwise.
func (b *Bot) sendPost(ctx context.Context, to kit.ChatTarget, post compose.Post, imageURL string) (kit.MessageRef, error) {
	opts := htmlOpts(postMarkup(post.Rows))
	if imageURL != "" {
		return b.adapter.SendPhoto(ctx, to, imageURL, post.Caption, opts)
	}
	opts.DisablePreview = false
	return b.adapter.SendText(ctx, to, post.Caption, opts)
}

// editPost re-renders an already-sent post in place.
func (b *Bot) editPost(ctx context.Context, ref kit.MessageRef, post compose.Post, imageURL string) error {
	opts := htmlOpts(postMarkup(post.Rows))
	if imageURL != "" {
		return b.adapter.EditCaption(ctx, ref, post.Caption, opts)
	}
	opts.DisablePreview = false
	return b.adapter.EditText(ctx, ref, post.Caption, opts)
}
