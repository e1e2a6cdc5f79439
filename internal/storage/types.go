package storage

import (
	"errors"
	"time"
)

// ErrNoChannel reports that an admin has not configured a target
// channel yet.
var ErrNoChannel = errors.New("storage: no channel configured")

type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}

// ChannelSetting is the per-admin publish target: where posts go and
// which optional sticker trails them.
type ChannelSetting struct {
	AdminID         int64
	ChannelID       int64
	ChannelUsername string
	StickerID       string
	UpdatedAt       time.Time
}

// Label is the human-readable channel reference shown to the admin.
func (c ChannelSetting) Label() string {
	if c.ChannelUsername != "" {
		return "@" + c.ChannelUsername
	}
	return formatChatID(c.ChannelID)
}

// AuditEntry records an admin action. Keep it compact and
// schema-stable.
type AuditEntry struct {
	At         time.Time
	ActorID    int64
	ActorLabel string
	Action     string
	OK         bool
	Detail     string
}
