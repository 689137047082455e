package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/ekosystem/traits"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstKill         BookmarkType = "first_kill"
	BookmarkSpeciesExtinct    BookmarkType = "species_extinct"
	BookmarkCarnivoresExtinct BookmarkType = "carnivores_extinct"
	BookmarkHerbivoresExtinct BookmarkType = "herbivores_extinct"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Turn        int          `csv:"turn" json:"turn"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"turn", b.Turn,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a run.
type BookmarkDetector struct {
	started    bool
	prev       TurnStats
	killSeen   bool
	extinction []traits.Species // in order of extinction
}

// NewBookmarkDetector creates a detector.
func NewBookmarkDetector() *BookmarkDetector {
	return &BookmarkDetector{}
}

// Check compares the latest stats against the previous turn and returns any
// triggered bookmarks. The first call only records a baseline, apart from kills.
func (bd *BookmarkDetector) Check(stats TurnStats) []Bookmark {
	var bookmarks []Bookmark

	if !bd.killSeen && stats.Kills > 0 {
		bd.killSeen = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstKill,
			Turn:        stats.Turn,
			Description: fmt.Sprintf("first kill after %d turns", stats.Turn),
		})
	}

	if bd.started {
		for s := traits.Species(0); s < traits.NumSpecies; s++ {
			if bd.prev.Alive[s] > 0 && stats.Alive[s] == 0 {
				bd.extinction = append(bd.extinction, s)
				bookmarks = append(bookmarks, Bookmark{
					Type:        BookmarkSpeciesExtinct,
					Turn:        stats.Turn,
					Description: fmt.Sprintf("%s extinct, %d species left", s, stats.SpeciesAlive),
				})
			}
		}
		if bd.prev.Carnivores > 0 && stats.Carnivores == 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkCarnivoresExtinct,
				Turn:        stats.Turn,
				Description: fmt.Sprintf("last carnivore died, %d herbivores remain", stats.Herbivores),
			})
		}
		if bd.prev.Herbivores > 0 && stats.Herbivores == 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkHerbivoresExtinct,
				Turn:        stats.Turn,
				Description: fmt.Sprintf("last herbivore died, %d carnivores remain", stats.Carnivores),
			})
		}
	}

	bd.started = true
	bd.prev = stats
	return bookmarks
}

// Prime records the starting population so deaths in the first turn are noticed.
func (bd *BookmarkDetector) Prime(stats TurnStats) {
	bd.started = true
	bd.prev = stats
}

// Extinctions returns species in the order they died out.
func (bd *BookmarkDetector) Extinctions() []traits.Species {
	out := make([]traits.Species, len(bd.extinction))
	copy(out, bd.extinction)
	return out
}
