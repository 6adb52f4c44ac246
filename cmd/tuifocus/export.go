package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuifocus/internal/model"
	"github.com/verte-zerg/tuifocus/internal/stats"
)

func writeLogs(w io.Writer, logs []model.FocusLog, format string) error {
	if logs == nil {
		logs = []model.FocusLog{}
	}
	switch format {
	case "", "table":
		return stats.RenderLogTable(w, logs)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(logs); err != nil {
			return fmt.Errorf("failed to encode logs: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(logs); err != nil {
			return fmt.Errorf("failed to encode logs: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode logs: %w", err)
		}
		return nil
	default:
		return errUnknownFormat(format)
	}
}

func filterFactor(logs []model.FocusLog, factor model.DistractionFactor) []model.FocusLog {
	out := make([]model.FocusLog, 0, len(logs))
	for _, l := range logs {
		if l.DistractionFactor == factor {
			out = append(out, l)
		}
	}
	return out
}
