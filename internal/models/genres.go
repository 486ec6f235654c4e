package models

import "strings"

// Genres are stored as a single comma-joined column. There is no escaping:
// a label containing a comma would not round-trip, so validation rejects
// such labels before they reach the store.

const genreDelimiter = ","

func JoinGenres(genres []string) string {
	return strings.Join(genres, genreDelimiter)
}

func SplitGenres(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, genreDelimiter)
}

// GenreContainsDelimiter reports whether a label would corrupt the
// persisted encoding.
func GenreContainsDelimiter(genre string) bool {
	return strings.Contains(genre, genreDelimiter)
}
