package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestRssScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>New Games</title>
	<item>
		<title>Moto X3M</title>
		<link>https://games.example.com/moto-x3m</link>
		<description>Bike racing with big air.</description>
		<enclosure url="https://games.example.com/img/moto.png" type="image/png"/>
	</item>
	<item>
		<title>Slope</title>
		<link>https://games.example.com/slope</link>
	</item>
	<item>
		<title></title>
		<link>https://games.example.com/broken</link>
	</item>
</channel>
</rss>`)
	}))
	defer server.Close()

	rss := NewRss(resty.New(), RssOptions{
		Name:     "testrss",
		FeedUrl:  server.URL,
		Category: "arcade",
		MaxGames: 10,
	})

	games, err := rss.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)

	require.Equal(t, "Moto X3M", games[0].Name)
	require.Equal(t, "https://games.example.com/moto-x3m", games[0].Url)
	require.Equal(t, "https://games.example.com/img/moto.png", games[0].ImageUrl)
	require.Equal(t, "Bike racing with big air.", games[0].Description)
	require.Equal(t, "arcade", games[0].Category)
	require.Equal(t, "testrss", games[0].Source)
}
