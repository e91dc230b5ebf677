package ambient

import (
	"log/slog"
	"os"
)

// NewLogger returns a text-handler slog.Logger writing to stderr, the one
// ambient concern this repo doesn't reach for a third-party library for:
// no example in the retrieval pack standardizes on zerolog/zap/logrus, so
// there is no grounding source calling for one (see DESIGN.md).
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// SchemaLoaded logs a successful schema load, the one genuinely log-worthy
// event in C14.
func SchemaLoaded(log *slog.Logger, name string, tableCount int) {
	log.Info("schema loaded", "name", name, "tables", tableCount)
}

// PipelineFailed logs a pipeline stage failure at the CLI boundary (C16);
// the core itself never logs, per §7 "no error is fatal to the process".
func PipelineFailed(log *slog.Logger, stage Stage, err error) {
	log.Error("pipeline stage failed", "stage", string(stage), "error", err)
}
