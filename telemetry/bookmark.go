package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/savanna/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkHerbivoreCrash   BookmarkType = "herbivore_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Step        int          `csv:"step"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// Herbivores returns the number of rabbits and mice.
func (s WindowStats) Herbivores() int {
	return s.Rabbit + s.Mouse
}

// Predators returns the number of snakes and tigers.
func (s WindowStats) Predators() int {
	return s.Snake + s.Tiger
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	previous           [components.NumSpecies]int
	hasPrevious        bool
	recentPredMin      int // minimum predator count in recent history
	recentHerbPeak     int // peak herbivore count in recent history
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.hasPrevious {
		bookmarks = append(bookmarks, bd.checkExtinctions(stats)...)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Predator recovery: was ≤3, now ≥3x that
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Herbivore crash: dropped >30% from recent peak
		if b := bd.checkHerbivoreCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable ecosystem: herbivores and predators present with low variance over 5+ windows
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.previous = stats.Counts()
	bd.hasPrevious = true

	if stats.Predators() < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.Predators()
	}
	if stats.Herbivores() > bd.recentHerbPeak {
		bd.recentHerbPeak = stats.Herbivores()
	}

	return bookmarks
}

// Reset forgets all history.
func (bd *BookmarkDetector) Reset() {
	*bd = BookmarkDetector{
		history:     make([]WindowStats, bd.historySize),
		historySize: bd.historySize,
	}
}

// Counts returns the per-species counts at window end.
func (s WindowStats) Counts() [components.NumSpecies]int {
	var c [components.NumSpecies]int
	c[components.Grass] = s.Grass
	c[components.Acacia] = s.Acacia
	c[components.Rabbit] = s.Rabbit
	c[components.Mouse] = s.Mouse
	c[components.Snake] = s.Snake
	c[components.Tiger] = s.Tiger
	return c
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinctions(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	now := stats.Counts()
	for _, s := range components.AllSpecies() {
		if bd.previous[s] > 0 && now[s] == 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkExtinction,
				Step:        stats.WindowEnd,
				Description: fmt.Sprintf("%s died out (was %d)", s, bd.previous[s]),
			})
		}
	}
	return bookmarks
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin == 0 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * 3
	if stats.Predators() >= threshold && stats.Predators() >= 6 {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Predators()

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Step:        stats.WindowEnd,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.Predators()),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats WindowStats) *Bookmark {
	if bd.recentHerbPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Herbivores())/float64(bd.recentHerbPeak)
	if dropPercent > 0.30 && stats.Herbivores() < bd.recentHerbPeak-10 {
		oldPeak := bd.recentHerbPeak
		bd.recentHerbPeak = stats.Herbivores()

		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Step:        stats.WindowEnd,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Herbivores()),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Herbivores() < 10 || stats.Predators() < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	herb := make([]float64, len(recent))
	pred := make([]float64, len(recent))
	for i, h := range recent {
		herb[i] = float64(h.Herbivores())
		pred[i] = float64(h.Predators())
	}
	herbMean, herbStd := MeanStd(herb)
	predMean, predStd := MeanStd(pred)

	// Low variance: coefficient of variation < 20%
	if herbMean > 0 && predMean > 0 && herbStd/herbMean < 0.2 && predStd/predMean < 0.2 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Step:        stats.WindowEnd,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d predators over 5+ windows", stats.Herbivores(), stats.Predators()),
		}
	}

	return nil
}
