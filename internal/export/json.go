package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/lockin/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          string                  `json:"id"`
	Date        string                  `json:"date"`
	TemplateID  string                  `json:"template_id"`
	Status      string                  `json:"status"`
	TotalVolume float64                 `json:"total_volume"`
	Unit        string                  `json:"unit"`
	CompletedAt string                  `json:"completed_at,omitempty"`
	Exercises   []store.SessionExercise `json:"exercises"`
}

// ToJSON writes workout history as a full structured document.
func ToJSON(sessions []store.Session, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		completedAt := ""
		if s.CompletedAt != nil {
			completedAt = s.CompletedAt.Local().Format(time.RFC3339)
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			Date:        s.Date,
			TemplateID:  s.TemplateID,
			Status:      string(s.Status),
			TotalVolume: s.TotalVolume,
			Unit:        string(s.Unit),
			CompletedAt: completedAt,
			Exercises:   s.Exercises,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
