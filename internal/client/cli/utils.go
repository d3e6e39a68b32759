package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthsync/internal/server/models"
	"github.com/dmitrijs2005/healthsync/internal/timex"
)

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid --timeout %q", s)
	}
	return d, nil
}

func formatCounts(c models.SyncCounts) string {
	return fmt.Sprintf("profile=%d food=%d workouts=%d biomarkers=%d goals=%d (total %d)",
		c.UserProfile, c.FoodEntries, c.WorkoutEntries, c.BiomarkerEntries, c.Goals, c.Total())
}

// parseSince accepts epoch milliseconds or an RFC 3339 time.
func parseSince(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("invalid --since %q: must not be negative", s)
		}
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid --since %q: want epoch milliseconds or RFC 3339", s)
	}
	return t.UnixMilli(), nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "beginning"
	}
	return timex.UnixMilli(ms).Format(time.RFC3339)
}
