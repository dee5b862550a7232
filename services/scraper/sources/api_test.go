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

func TestApiScrapeWrappedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"games": [
				{"title": "Moto X3M", "url": "/games/moto-x3m", "thumb": "/img/moto.png"},
				{"title": "Slope", "url": "/games/slope"},
				{"title": "", "url": "/games/empty-name"}
			]}`)
		default:
			fmt.Fprint(w, `{"games": []}`)
		}
	}))
	defer server.Close()

	api, err := NewApi(resty.New(), ApiOptions{
		Name:       "testapi",
		ApiUrl:     server.URL + "/games.json?page={page}",
		Pages:      5,
		ListKey:    "games",
		NameField:  "title",
		UrlField:   "url",
		ImageField: "thumb",
		BaseUrl:    "https://games.example.com",
	})
	require.NoError(t, err)

	games, err := api.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)

	require.Equal(t, "Moto X3M", games[0].Name)
	require.Equal(t, "https://games.example.com/games/moto-x3m", games[0].Url)
	require.Equal(t, "https://games.example.com/img/moto.png", games[0].ImageUrl)
	require.Equal(t, "testapi", games[0].Source)
}

func TestApiScrapeRootArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "Slope", "link": "https://games.example.com/slope", "desc": "roll downhill"}
		]`)
	}))
	defer server.Close()

	api, err := NewApi(resty.New(), ApiOptions{
		Name:             "testapi",
		ApiUrl:           server.URL,
		NameField:        "name",
		UrlField:         "link",
		DescriptionField: "desc",
	})
	require.NoError(t, err)

	games, err := api.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "roll downhill", games[0].Description)
}

func TestApiMissingListKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected": []}`)
	}))
	defer server.Close()

	api, err := NewApi(resty.New(), ApiOptions{
		Name:      "testapi",
		ApiUrl:    server.URL,
		ListKey:   "games",
		NameField: "title",
		UrlField:  "url",
	})
	require.NoError(t, err)

	_, err = api.Scrape(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `"games"`)
}
