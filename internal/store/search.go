package store

import (
	"fmt"
	"strings"

	"github.com/mkoelzer/songbase/internal/domain"
)

// SongOrder names the columns songs can be sorted by.
type SongOrder string

const (
	OrderNone        SongOrder = ""
	OrderRelevance   SongOrder = "relevance"
	OrderSongID      SongOrder = "song_id"
	OrderArtist      SongOrder = "artist"
	OrderTitle       SongOrder = "title"
	OrderLanguage    SongOrder = "language"
	OrderEdition     SongOrder = "edition"
	OrderGoldenNotes SongOrder = "golden_notes"
	OrderRating      SongOrder = "rating"
	OrderViews       SongOrder = "views"
)

// orderColumns maps an order to the SQL expression it sorts by. Orders not in
// this map are rejected, so user input never reaches the statement verbatim.
var orderColumns = map[SongOrder]string{
	OrderRelevance:   "search_index.rank",
	OrderSongID:      "catalog_entry.song_id",
	OrderArtist:      "catalog_entry.artist",
	OrderTitle:       "catalog_entry.title",
	OrderLanguage:    "catalog_entry.language",
	OrderEdition:     "catalog_entry.edition",
	OrderGoldenNotes: "catalog_entry.golden_notes",
	OrderRating:      "catalog_entry.rating",
	OrderViews:       "catalog_entry.views",
}

// ViewRange is a half-open view-count interval. A nil Max means unbounded.
type ViewRange struct {
	Min int
	Max *int
}

// SearchBuilder composes a catalog query from free text and structured
// filters. The zero value matches every song.
type SearchBuilder struct {
	Text        string
	Artists     []string
	Titles      []string
	Editions    []string
	Languages   []string
	GoldenNotes *bool
	Ratings     []int
	Views       []ViewRange
	Downloaded  *bool
	Order       SongOrder
	Descending  bool
}

func (b *SearchBuilder) filters() (clauses []string, args []any) {
	if text := fts5Phrases(b.Text); text != "" {
		clauses = append(clauses, "search_index MATCH ?")
		args = append(args, text)
	}
	for _, f := range []struct {
		column string
		values []string
	}{
		{"catalog_entry.artist", b.Artists},
		{"catalog_entry.title", b.Titles},
		{"catalog_entry.edition", b.Editions},
		{"catalog_entry.language", b.Languages},
	} {
		if len(f.values) == 0 {
			continue
		}
		clauses = append(clauses, inValuesClause(f.column, len(f.values)))
		for _, v := range f.values {
			args = append(args, v)
		}
	}
	if b.GoldenNotes != nil {
		clauses = append(clauses, "catalog_entry.golden_notes = ?")
		args = append(args, *b.GoldenNotes)
	}
	if len(b.Ratings) > 0 {
		clauses = append(clauses, inValuesClause("catalog_entry.rating", len(b.Ratings)))
		for _, r := range b.Ratings {
			args = append(args, r)
		}
	}
	if len(b.Views) > 0 {
		var ranges []string
		for _, v := range b.Views {
			if v.Max == nil {
				ranges = append(ranges, "catalog_entry.views >= ?")
				args = append(args, v.Min)
			} else {
				ranges = append(ranges, "(catalog_entry.views >= ? AND catalog_entry.views < ?)")
				args = append(args, v.Min, *v.Max)
			}
		}
		clauses = append(clauses, "("+strings.Join(ranges, " OR ")+")")
	}
	if b.Downloaded != nil {
		if *b.Downloaded {
			clauses = append(clauses, "active_selection.attempt_id IS NOT NULL")
		} else {
			clauses = append(clauses, "active_selection.attempt_id IS NULL")
		}
	}
	return clauses, args
}

func (b *SearchBuilder) statement(limit int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT catalog_entry.song_id, catalog_entry.artist, catalog_entry.title,
		catalog_entry.language, catalog_entry.edition, catalog_entry.golden_notes,
		catalog_entry.rating, catalog_entry.views
	FROM catalog_entry`)
	if fts5Phrases(b.Text) != "" {
		sb.WriteString("\n	JOIN search_index ON search_index.rowid = catalog_entry.song_id")
	}
	if b.Downloaded != nil {
		sb.WriteString("\n	LEFT JOIN active_selection ON active_selection.song_id = catalog_entry.song_id AND active_selection.rank = 0")
	}

	clauses, args := b.filters()
	if len(clauses) > 0 {
		sb.WriteString("\n	WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	order := b.Order
	if order == OrderRelevance && fts5Phrases(b.Text) == "" {
		order = OrderNone
	}
	if column, ok := orderColumns[order]; ok {
		direction := "ASC"
		if b.Descending {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, "\n	ORDER BY %s %s", column, direction)
	}

	if limit > 0 {
		sb.WriteString("\n	LIMIT ?")
		args = append(args, limit)
	}
	return sb.String(), args
}

func inValuesClause(column string, n int) string {
	return fmt.Sprintf("%s IN (?%s)", column, strings.Repeat(", ?", n-1))
}

// SearchSongs runs the builder against the catalog and returns up to limit
// matching songs.
func (db *DB) SearchSongs(b *SearchBuilder, limit int) ([]domain.Song, error) {
	query, args := b.statement(limit)
	var songs []domain.Song
	if err := db.Select(&songs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	return songs, nil
}

// Search returns songs matching the free text, most relevant first.
func (db *DB) Search(text string, limit int) ([]domain.Song, error) {
	return db.SearchSongs(&SearchBuilder{Text: text, Order: OrderRelevance}, limit)
}

// FindSimilar returns the ids of songs whose artist and title both start with
// the given strings. The downloader uses it to spot likely duplicates before
// fetching.
func (db *DB) FindSimilar(artist, title string) ([]domain.SongID, error) {
	var ids []domain.SongID
	err := db.Select(&ids, "SELECT rowid FROM search_index WHERE artist MATCH ? AND title MATCH ?",
		fts5StartPhrase(artist), fts5StartPhrase(title))
	if err != nil {
		return nil, fmt.Errorf("failed to find similar songs: %w", err)
	}
	return ids, nil
}

// FacetColumn is a catalog column facet listings can be built over.
type FacetColumn string

const (
	FacetArtist   FacetColumn = "artist"
	FacetTitle    FacetColumn = "title"
	FacetEdition  FacetColumn = "edition"
	FacetLanguage FacetColumn = "language"
)

// Valid reports whether c names a facetable column.
func (c FacetColumn) Valid() bool {
	switch c {
	case FacetArtist, FacetTitle, FacetEdition, FacetLanguage:
		return true
	}
	return false
}

// Facet returns each distinct value of the column with its song count.
func (db *DB) Facet(column FacetColumn) ([]domain.Facet, error) {
	if !column.Valid() {
		return nil, validationErrorf("column", "unknown facet column %q", column)
	}
	query := fmt.Sprintf(
		"SELECT %s AS value, COUNT(*) AS count FROM catalog_entry GROUP BY %s ORDER BY %s",
		column, column, column)
	var facets []domain.Facet
	if err := db.Select(&facets, query); err != nil {
		return nil, fmt.Errorf("failed to list %s facet: %w", column, err)
	}
	return facets, nil
}

// SearchFacet returns the distinct values of the column matching the text.
func (db *DB) SearchFacet(column FacetColumn, text string) ([]string, error) {
	if !column.Valid() {
		return nil, validationErrorf("column", "unknown facet column %q", column)
	}
	match := fts5Phrases(text)
	if match == "" {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT DISTINCT %s FROM search_index WHERE %s MATCH ?", column, column)
	var values []string
	if err := db.Select(&values, query, match); err != nil {
		return nil, fmt.Errorf("failed to search %s facet: %w", column, err)
	}
	return values, nil
}

// fts5Phrases turns each whitespace-separated word into an FTS5 phrase.
func fts5Phrases(text string) string {
	var phrases []string
	for _, word := range strings.Fields(strings.ReplaceAll(text, `"`, "")) {
		phrases = append(phrases, `"`+word+`"`)
	}
	return strings.Join(phrases, " ")
}

// fts5StartPhrase turns the entire string into an FTS5 initial phrase.
func fts5StartPhrase(text string) string {
	return `^ "` + strings.ReplaceAll(text, `"`, "") + `"`
}
