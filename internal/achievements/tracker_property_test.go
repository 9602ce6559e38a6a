package achievements

import (
	"testing"
	"time"

	"github.com/example/voicelingo/internal/database"
	"pgregory.net/rapid"
)

func TestProgressMonotoneAndSingleUnlock(t *testing.T) {
	ids := make([]string, 0, 20)
	for _, a := range Catalog() {
		ids = append(ids, a.ID)
	}

	rapid.Check(t, func(t *rapid.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		tr := New(database.NewMemoryStore(), WithClock(func() time.Time { return now }))
		unlocks := map[string]int{}

		steps := rapid.IntRange(1, 80).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(t, "id")
			before, _ := tr.Achievement(id)

			if tr.UpdateProgress(id, rapid.IntRange(-5, 1200).Draw(t, "progress")) {
				unlocks[id]++
			}
			now = now.Add(time.Duration(rapid.IntRange(1, 90).Draw(t, "minutes")) * time.Minute)

			after, _ := tr.Achievement(id)
			if after.Progress < before.Progress {
				t.Fatalf("%s progress went from %d to %d", id, before.Progress, after.Progress)
			}
			if before.Unlocked && (!after.Unlocked || !after.UnlockedAt.Equal(*before.UnlockedAt)) {
				t.Fatalf("%s unlock changed", id)
			}
			if after.Unlocked && after.Progress < after.Requirement {
				t.Fatalf("%s unlocked below its requirement", id)
			}
		}

		for id, n := range unlocks {
			if n > 1 {
				t.Fatalf("%s unlocked %d times", id, n)
			}
		}
		if len(tr.NewlyUnlocked()) != tr.UnlockedCount() {
			t.Fatalf("queue has %d entries for %d unlocks", len(tr.NewlyUnlocked()), tr.UnlockedCount())
		}
		if tr.TotalPoints() != Points(tr.Achievements()) {
			t.Fatalf("total points %d is not derived", tr.TotalPoints())
		}
	})
}
