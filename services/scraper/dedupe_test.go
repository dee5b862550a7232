package scraper

import (
	"testing"

	"gamescrape/services/scraper/sources"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateExact(t *testing.T) {
	games := []sources.Game{
		{Name: "Moto X3M", Url: "https://a.example.com/moto", Source: "a"},
		{Name: "MOTO X3M", Url: "https://a.example.com/moto", Source: "a"},
		{Name: "Slope", Url: "https://a.example.com/slope", Source: "a"},
	}

	unique := Deduplicate(games, 0)
	expected := []sources.Game{games[0], games[2]}
	if diff := cmp.Diff(expected, unique); diff != "" {
		t.Fatal(diff)
	}
}

func TestDeduplicateNearNamesWithinSource(t *testing.T) {
	games := []sources.Game{
		{Name: "Moto X3M", Url: "https://a.example.com/moto", Source: "a"},
		{Name: "Moto X3M!", Url: "https://a.example.com/moto-2", Source: "a"},
		{Name: "Drift Hunters", Url: "https://a.example.com/drift", Source: "a"},
	}

	unique := Deduplicate(games, 0.9)
	require.Len(t, unique, 2)
	require.Equal(t, "Moto X3M", unique[0].Name)
	require.Equal(t, "Drift Hunters", unique[1].Name)
}

func TestDeduplicateKeepsSameNameAcrossSources(t *testing.T) {
	games := []sources.Game{
		{Name: "Slope", Url: "https://a.example.com/slope", Source: "a"},
		{Name: "Slope", Url: "https://b.example.com/slope", Source: "b"},
	}

	unique := Deduplicate(games, 0.9)
	require.Len(t, unique, 2)
}
