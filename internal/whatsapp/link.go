package whatsapp

import (
	"net/url"
	"strings"
)

// ChatLink builds the wa.me hand-off URL that opens a chat with the shop
// number pre-filled with the order text. Spaces are percent-encoded so the
// payload survives every WhatsApp client.
func ChatLink(phone, text string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + encoded
}
