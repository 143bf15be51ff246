package game

import (
	"log/slog"

	"github.com/pthm-cable/savanna/config"
)

// gridSize returns the configured field dimensions, falling back to the
// defaults when either is not positive.
func gridSize(cfg *config.Config) (depth, width int) {
	depth, width = cfg.World.Depth, cfg.World.Width
	if depth <= 0 || width <= 0 {
		slog.Warn("invalid_dimensions",
			"depth", depth,
			"width", width,
			"using_depth", config.DefaultDepth,
			"using_width", config.DefaultWidth,
		)
		depth, width = config.DefaultDepth, config.DefaultWidth
	}
	return depth, width
}
