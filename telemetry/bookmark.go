package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewRecord  BookmarkType = "new_record"
	BookmarkFirstLap   BookmarkType = "lap_completed"
	BookmarkStagnation BookmarkType = "stagnation"
	BookmarkWipeout    BookmarkType = "wipeout"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Generation  int          `csv:"generation" json:"generation"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable generations.
type BookmarkDetector struct {
	stagnationGenerations int
	wipeoutFraction       float64
	generationTicks       int32

	bestEver    float64
	sinceRecord int
	lapSeen     bool
}

// NewBookmarkDetector creates a detector. stagnation is the number of
// generations without a new record before a stagnation bookmark fires;
// wipeout is the fraction of the generation budget below which a generation
// where every car died counts as a wipe-out.
func NewBookmarkDetector(stagnation int, wipeout float64, generationTicks int32) *BookmarkDetector {
	if stagnation < 1 {
		stagnation = 10
	}
	return &BookmarkDetector{
		stagnationGenerations: stagnation,
		wipeoutFraction:       wipeout,
		generationTicks:       generationTicks,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.ScoreMax > bd.bestEver {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkNewRecord,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Best score %.2f beats %.2f (genome %s)", stats.ScoreMax, bd.bestEver, stats.BestGenome),
		})
		bd.bestEver = stats.ScoreMax
		bd.sinceRecord = 0
	} else {
		bd.sinceRecord++
		// Fire once per plateau.
		if bd.sinceRecord == bd.stagnationGenerations {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkStagnation,
				Generation:  stats.Generation,
				Description: fmt.Sprintf("No improvement on %.2f for %d generations", bd.bestEver, bd.sinceRecord),
			})
		}
	}

	if stats.Laps > 0 && !bd.lapSeen {
		bd.lapSeen = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstLap,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("First completed lap, %d laps this generation", stats.Laps),
		})
	}

	limit := bd.wipeoutFraction * float64(bd.generationTicks)
	if stats.Population > 0 && stats.Timeouts == 0 && stats.MeanTicksAlive < limit {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkWipeout,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("All %d cars crashed after %.0f ticks on average", stats.Population, stats.MeanTicksAlive),
		})
	}

	return bookmarks
}

// BestEver returns the highest generation best score seen so far.
func (bd *BookmarkDetector) BestEver() float64 {
	return bd.bestEver
}
