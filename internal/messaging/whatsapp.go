// Package messaging builds hand-off links to external messaging apps. It
// never talks to the network; the browser follows the link.
package messaging

import (
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// Linker turns a destination and a message into a URL the browser can open.
type Linker interface {
	Link(destination, text string) string
}

// WhatsAppLinker builds wa.me click-to-chat links.
type WhatsAppLinker struct {
	baseURL string
}

func NewWhatsAppLinker() *WhatsAppLinker {
	return &WhatsAppLinker{baseURL: whatsAppBaseURL}
}

// Link returns https://wa.me/{digits}?text={text}. Only the digits of
// destination are kept, as wa.me expects the full international number
// without "+", spaces or dashes. Spaces in text are encoded as %20.
func (l *WhatsAppLinker) Link(destination, text string) string {
	return l.baseURL + digitsOnly(destination) + "?text=" + encodeText(text)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func encodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
