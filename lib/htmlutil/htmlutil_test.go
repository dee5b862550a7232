package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<body>
			<a href="/en/g/moto-x3m">Moto   X3M</a>
			<a href="https://other.example.com/about">About
			Us</a>
		</body>
	`))
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, Anchor{Name: "Moto X3M", Href: "/en/g/moto-x3m"}, anchors[0])
	require.Equal(t, "About Us", anchors[1].Name)
}

func TestGetIframeSources(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<body>
			<iframe src="/embed/moto-x3m"></iframe>
			<iframe src="https://cdn.example.com/player"></iframe>
			<iframe></iframe>
		</body>
	`))
	require.NoError(t, err)

	base, _ := url.Parse("https://games.example.com")
	sources := GetIframeSources(doc, base)
	require.Equal(t, []string{
		"https://games.example.com/embed/moto-x3m",
		"https://cdn.example.com/player",
	}, sources)
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Moto X3M", CleanText("  Moto \n\t X3M  "))
}
