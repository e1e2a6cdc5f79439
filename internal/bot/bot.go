// Package bot sequences the posting workflow: it routes inbound
// commands and callbacks to handlers that drive the session caches,
// the composer, and the transport.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"seriesbot/internal/audit"
	"seriesbot/internal/metadata"
	"seriesbot/internal/session"
	"seriesbot/internal/storage"
	kit "seriesbot/internal/transport"
	"seriesbot/pkg/logx"
	"seriesbot/pkg/tgui"
)

// Metadata is the series provider consumed by the workflow.
type Metadata interface {
	Search(ctx context.Context, query string, page int) (*metadata.SearchPage, error)
	Detail(ctx context.Context, id int64) (*metadata.Series, error)
	ImageURL(s *metadata.Series) string
}

// Settings is the per-admin channel configuration store.
type Settings interface {
	ChannelForAdmin(ctx context.Context, adminID int64) (storage.ChannelSetting, error)
	SetChannel(ctx context.Context, adminID, channelID int64, username string) error
	SetSticker(ctx context.Context, adminID int64, stickerID string) error
}

type Config struct {
	AdminIDs       []int64
	HandleTimeout  time.Duration // per-update budget; default 30s
	CommandCleanup time.Duration // delay before admin command messages are deleted; default 5s
	NoticeCleanup  time.Duration // delay before transient notices are deleted; default 10s
}

type Bot struct {
	cfg     Config
	log     logx.Logger
	adapter kit.Adapter
	meta    Metadata
	store   Settings
	audit   audit.Recorder
	cache   *session.Manager
	janitor *Janitor

	adminMu   sync.RWMutex
	admins    map[int64]struct{}
	commands  map[string]handlerFunc
	callbacks map[string]handlerFunc
}

type request struct {
	update     kit.Update
	chat       kit.ChatTarget
	fromID     int64
	fromLabel  string
	command    string
	args       string
	payload    string
	callbackID string
	messageID  int
}

type handlerFunc func(ctx context.Context, req *request) error

func New(cfg Config, adapter kit.Adapter, meta Metadata, store Settings, rec audit.Recorder, cache *session.Manager, log logx.Logger) *Bot {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.HandleTimeout <= 0 {
		cfg.HandleTimeout = 30 * time.Second
	}
	if cfg.CommandCleanup <= 0 {
		cfg.CommandCleanup = 5 * time.Second
	}
	if cfg.NoticeCleanup <= 0 {
		cfg.NoticeCleanup = 10 * time.Second
	}
	b := &Bot{
		cfg:     cfg,
		log:     log,
		adapter: adapter,
		meta:    meta,
		store:   store,
		audit:   rec,
		cache:   cache,
		janitor: NewJanitor(adapter, log),
		admins:  map[int64]struct{}{},
	}
	b.SetAdmins(cfg.AdminIDs)
	b.commands = map[string]handlerFunc{
		"tvpost":     b.handleTVPost,
		"addlink":    b.handleAddLink,
		"listposts":  b.handleListPosts,
		"setchannel": b.handleSetChannel,
		"setsticker": b.handleSetSticker,
		"start":      b.handleHelp,
		"help":       b.handleHelp,
	}
	b.callbacks = map[string]handlerFunc{
		"page": b.handlePage,
		"pick": b.handlePick,
		"ok":   b.handleConfirm,
		"no":   b.handleCancel,
		"fill": b.handleFillTap,
		"tmp":  b.handleInert,
		"noop": b.handleInert,
	}
	return b
}

// SetAdmins replaces the admin allowlist. The config watcher calls it
// while Dispatch is running, so access is guarded.
func (b *Bot) SetAdmins(ids []int64) {
	admins := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		admins[id] = struct{}{}
	}
	b.adminMu.Lock()
	b.admins = admins
	b.adminMu.Unlock()
}

func (b *Bot) isAdmin(id int64) bool {
	b.adminMu.RLock()
	_, ok := b.admins[id]
	b.adminMu.RUnlock()
	return ok
}

// Sweep evicts expired cache entries; the app schedules it.
func (b *Bot) Sweep(now time.Time) { b.cache.Sweep(now) }

// Shutdown flushes pending delayed deletions.
func (b *Bot) Shutdown(ctx context.Context) { b.janitor.Shutdown(ctx) }

// Dispatch consumes updates until ctx is done. Updates are handled one
// at a time; the caches stay safe for the concurrently running sweeper.
func (b *Bot) Dispatch(ctx context.Context, updates <-chan kit.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, up)
		}
	}
}

func (b *Bot) handle(ctx context.Context, up kit.Update) {
	req := buildRequest(up)
	if req == nil {
		return
	}

	hctx, cancel := context.WithTimeout(ctx, b.cfg.HandleTimeout)
	defer cancel()

	start := time.Now()
	err := b.route(hctx, req)
	d := time.Since(start)

	fields := []logx.Field{
		logx.String("kind", string(up.Kind)),
		logx.Int64("from", req.fromID),
		logx.String("cmd", req.command),
		logx.Duration("dur", d),
	}
	if err != nil {
		b.log.Warn("update failed", append(fields, logx.Err(err))...)
	} else {
		b.log.Debug("update ok", fields...)
	}
}

func (b *Bot) route(ctx context.Context, req *request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic recovered",
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch req.update.Kind {
	case kit.UpdateMessage:
		if req.command != "" {
			h, ok := b.commands[req.command]
			if !ok {
				return nil
			}
			if !b.isAdmin(req.fromID) {
				return b.reply(ctx, req, "❌ Only admins can use this command")
			}
			return h(ctx, req)
		}
		// Free text: only meaningful while a fill prompt is pending.
		if b.isAdmin(req.fromID) {
			return b.handlePromptReply(ctx, req)
		}
		return nil
	case kit.UpdateCallback:
		h, ok := b.callbacks[req.command]
		if !ok {
			return b.adapter.AnswerCallback(ctx, req.callbackID, "")
		}
		return h(ctx, req)
	}
	return nil
}

func buildRequest(up kit.Update) *request {
	switch up.Kind {
	case kit.UpdateMessage:
		m := up.Message
		if m == nil {
			return nil
		}
		req := &request{
			update:    up,
			chat:      kit.ChatTarget{ChatID: m.ChatID},
			fromID:    m.FromID,
			fromLabel: actorLabel(m.FromName, m.FromUsername),
			messageID: m.ID,
		}
		req.command, req.args = splitCommand(m.Text)
		return req
	case kit.UpdateCallback:
		cb := up.Callback
		if cb == nil {
			return nil
		}
		action, payload := tgui.Split(cb.Data)
		return &request{
			update:     up,
			chat:       kit.ChatTarget{ChatID: cb.ChatID},
			fromID:     cb.FromID,
			fromLabel:  actorLabel(cb.FromName, cb.FromUsername),
			command:    action,
			payload:    payload,
			callbackID: cb.ID,
			messageID:  cb.MessageID,
		}
	}
	return nil
}

// splitCommand extracts "/cmd rest" from message text; command is empty
// for plain text. A "@botname" suffix on the command is dropped.
func splitCommand(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	if at := strings.IndexByte(head, '@'); at != -1 {
		head = head[:at]
	}
	return strings.ToLower(head), strings.TrimSpace(rest)
}

func actorLabel(name, username string) string {
	if username == "" {
		username = "Untitled"
	}
	if name == "" {
		name = "Unknown"
	}
	return name + " (" + username + ")"
}

func (b *Bot) reply(ctx context.Context, req *request, text string) error {
	_, err := b.adapter.SendText(ctx, req.chat, text, &kit.SendOptions{ParseMode: "HTML", DisablePreview: true})
	return err
}

// messageRef points at the inbound message of req.
func (req *request) ref() kit.MessageRef {
	return kit.MessageRef{ChatID: req.chat.ChatID, MessageID: req.messageID}
}
