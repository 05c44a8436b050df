package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"daykeep/internal/store"
)

// ToCSV writes the focus-session log as a spreadsheet-friendly file.
func ToCSV(sessions []store.FocusSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"id", "task", "mode", "start_time", "duration_seconds", "duration"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			s.TaskTitle,
			s.Mode,
			s.StartTime.Local().Format(time.RFC3339),
			strconv.FormatInt(s.Duration, 10),
			formatSeconds(s.Duration),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return w.Error()
}

func formatSeconds(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
