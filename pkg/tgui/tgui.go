// Package tgui provides small Telegram UI helpers: safe HTML fragments,
// inline keyboard builders, and callback-data packing.
package tgui

import (
	"fmt"
	"html"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// MaxCallbackDataLen is Telegram's callback_data size limit in bytes.
const MaxCallbackDataLen = 64

// H is HTML that is safe to send with ParseMode="HTML".
type H string

func (h H) String() string { return string(h) }

// Esc escapes text for Telegram HTML parse mode.
func Esc(s string) H { return H(html.EscapeString(s)) }

func wrap(tag string, inner H) H { return H("<" + tag + ">" + inner.String() + "</" + tag + ">") }

func B(s string) H     { return wrap("b", Esc(s)) }
func I(s string) H     { return wrap("i", Esc(s)) }
func Code(s string) H  { return wrap("code", Esc(s)) }
func Quote(s string) H { return wrap("blockquote", Esc(s)) }

// Link builds an HTML link with both attribute and text escaped.
func Link(text, url string) H {
	return H(fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(url), html.EscapeString(text)))
}

// Inline builds inline keyboards row by row.
type Inline struct {
	rm   *tele.ReplyMarkup
	rows []tele.Row
}

func NewInline() *Inline { return &Inline{rm: &tele.ReplyMarkup{}} }

func (i *Inline) Row(btn ...tele.Btn) *Inline {
	i.rows = append(i.rows, i.rm.Row(btn...))
	i.rm.Inline(i.rows...)
	return i
}

func (i *Inline) Markup() *tele.ReplyMarkup { return i.rm }

// Btn creates a callback button with raw callback_data.
func Btn(text, data string) tele.Btn { return tele.Btn{Text: text, Data: data} }

// URLBtn creates a URL button.
func URLBtn(text, url string) tele.Btn { return tele.Btn{Text: text, URL: url} }

// Data formats callback data as "action:payload" (or just "action").
// Neither part may contain ':'.
func Data(action, payload string) string {
	action = strings.TrimSpace(action)
	if payload == "" {
		return action
	}
	return action + ":" + payload
}

// Split decodes callback data produced by Data.
func Split(data string) (action, payload string) {
	action, payload, _ = strings.Cut(strings.TrimSpace(data), ":")
	return action, payload
}
