package scraper

import (
	"gamescrape/lib/textutil"
	"gamescrape/services/scraper/sources"

	"github.com/antzucaro/matchr"
)

// Deduplicate removes exact duplicates (normalized name + url) across all
// sources, then collapses near-identical names within a source using
// Jaro-Winkler similarity. Portals routinely list the same game under
// slightly different titles ("Moto X3M" vs "Moto X3M!"), which exact keys
// miss.
func Deduplicate(games []sources.Game, similarity float64) []sources.Game {
	seen := map[string]bool{}
	bySource := map[string][]string{}
	var unique []sources.Game

	for _, game := range games {
		key := textutil.NormalizeName(game.Name) + "_" + game.Url
		if seen[key] {
			continue
		}
		seen[key] = true

		if similarity > 0 && nearDuplicate(game.Name, bySource[game.Source], similarity) {
			continue
		}
		bySource[game.Source] = append(bySource[game.Source], game.Name)
		unique = append(unique, game)
	}

	return unique
}

func nearDuplicate(name string, kept []string, threshold float64) bool {
	normalized := textutil.NormalizeName(name)
	for _, other := range kept {
		if matchr.JaroWinkler(normalized, textutil.NormalizeName(other), false) >= threshold {
			return true
		}
	}
	return false
}
