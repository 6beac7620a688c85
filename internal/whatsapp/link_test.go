package whatsapp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLink(t *testing.T) {
	link := ChatLink("5586995630268", "*Total: R$ 20.00*")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/5586995630268", u.Path)
	assert.Equal(t, "*Total: R$ 20.00*", u.Query().Get("text"))
	assert.NotContains(t, link, "+", "spaces must be percent-encoded")
}

func TestChatLinkMultiline(t *testing.T) {
	link := ChatLink("5586995630268", "linha um\nlinha dois")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "linha um\nlinha dois", u.Query().Get("text"))
}
