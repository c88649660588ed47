package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/lockin/internal/store"
)

// ToCSV writes workout history with one row per set.
func ToCSV(sessions []store.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Status", "Exercise", "Muscle Group", "Set", "Reps", "Weight", "Volume", "Unit"}); err != nil {
		return err
	}

	for _, s := range sessions {
		for _, ex := range s.Exercises {
			for i, set := range ex.Sets {
				row := []string{
					s.Date,
					string(s.Status),
					ex.Name,
					ex.MuscleGroup,
					fmt.Sprintf("%d", i+1),
					fmt.Sprintf("%d", set.Reps),
					formatWeight(set.Weight),
					formatWeight(set.Volume),
					string(s.Unit),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	return w.Error()
}

func formatWeight(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
