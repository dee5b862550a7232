package manager

import (
	"database/sql"
	"os"
	"strings"

	"gamescrape/services/scraper/db"

	_ "modernc.org/sqlite"
)

func createDb(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	sqlite, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer sqlite.Close()

	_, err = sqlite.Exec(db.Schema)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}
