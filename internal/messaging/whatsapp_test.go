package messaging

import (
	"net/url"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkNormalizesDestination(t *testing.T) {
	l := NewWhatsAppLinker()

	link := l.Link("+54 351-759-4749", "hola")

	assert.Equal(t, "https://wa.me/543517594749?text=hola", link)
}

func TestLinkEncodesMessage(t *testing.T) {
	l := NewWhatsAppLinker()
	msg := "Pedido - 05/03/2024 14:07\n\n- 3 x Vasos & tapas: S/ 1.50\n\nTotal a abonar: S/ 1.50\n\n¡Gracias por tu pedido!"

	link := l.Link("+543517594749", msg)

	require.True(t, strings.HasPrefix(link, "https://wa.me/543517594749?text="))
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, "\n")
	assert.Contains(t, link, "%20")
	assert.Contains(t, link, "%0A")
	assert.Contains(t, link, "%26")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}

// Feature: catalog-cart, Property 8: Deep links decode back to the original message
func TestProperty_LinkRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("text query parameter decodes to the message", prop.ForAll(
		func(msg string) bool {
			u, err := url.Parse(NewWhatsAppLinker().Link("+543517594749", msg))
			if err != nil {
				return false
			}
			return u.Host == "wa.me" &&
				u.Path == "/543517594749" &&
				u.Query().Get("text") == msg
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
