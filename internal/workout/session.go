package workout

import (
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/lockin/internal/store"
)

// CatalogLookup resolves an exercise id to its display metadata. ok is
// false for a dangling reference; the session engine substitutes
// placeholders instead of failing.
type CatalogLookup func(exerciseID string) (name, muscleGroup string, ok bool)

// SetPatch is a partial update to one set. Nil fields are left unchanged.
type SetPatch struct {
	Reps   *int
	Weight *float64
}

// NewSession instantiates a session from a template for the given date.
// Catalog name and muscle group are copied in at this point; each template
// exercise starts with defaultSets zero-valued sets.
func NewSession(tpl store.WorkoutTemplate, date string, unit store.WeightUnit, lookup CatalogLookup) store.Session {
	exercises := make([]store.SessionExercise, 0, len(tpl.Exercises))
	for _, te := range tpl.Exercises {
		name, muscleGroup, ok := lookup(te.ExerciseID)
		if !ok {
			name = "Unknown Exercise"
			muscleGroup = "Unknown"
		}
		sets := make([]store.SetEntry, 0, te.DefaultSets)
		for i := 0; i < te.DefaultSets; i++ {
			sets = append(sets, store.SetEntry{ID: newSetID()})
		}
		exercises = append(exercises, store.SessionExercise{
			ID:          te.ExerciseID,
			Name:        name,
			MuscleGroup: muscleGroup,
			Sets:        sets,
		})
	}
	return store.Session{
		ID:         "session-" + uuid.NewString(),
		Date:       date,
		TemplateID: tpl.ID,
		Exercises:  exercises,
		Status:     store.SessionInProgress,
		Unit:       unit,
	}
}

func newSetID() string {
	return "set-" + uuid.NewString()
}

// UpdateSet applies a patch to one set and recomputes its volume as
// reps × weight. Unknown exercise or set ids are a silent no-op. The input
// session is not modified.
func UpdateSet(sess store.Session, exerciseID, setID string, patch SetPatch) store.Session {
	out := clone(sess)
	for ei := range out.Exercises {
		if out.Exercises[ei].ID != exerciseID {
			continue
		}
		for si := range out.Exercises[ei].Sets {
			set := &out.Exercises[ei].Sets[si]
			if set.ID != setID {
				continue
			}
			if patch.Reps != nil {
				set.Reps = *patch.Reps
			}
			if patch.Weight != nil {
				set.Weight = *patch.Weight
			}
			set.Volume = float64(set.Reps) * set.Weight
			if set.Reps > 0 && set.CompletedAt == nil {
				now := time.Now()
				set.CompletedAt = &now
			}
			return out
		}
	}
	return out
}

// AddSet appends a fresh zero-valued set to the named exercise.
func AddSet(sess store.Session, exerciseID string) store.Session {
	out := clone(sess)
	for ei := range out.Exercises {
		if out.Exercises[ei].ID == exerciseID {
			out.Exercises[ei].Sets = append(out.Exercises[ei].Sets, store.SetEntry{ID: newSetID()})
			return out
		}
	}
	return out
}

// RemoveSet removes the named set. No minimum set count is enforced.
func RemoveSet(sess store.Session, exerciseID, setID string) store.Session {
	out := clone(sess)
	for ei := range out.Exercises {
		if out.Exercises[ei].ID != exerciseID {
			continue
		}
		sets := out.Exercises[ei].Sets
		for si := range sets {
			if sets[si].ID == setID {
				out.Exercises[ei].Sets = append(sets[:si:si], sets[si+1:]...)
				return out
			}
		}
	}
	return out
}

// Complete marks the session completed and records the total volume across
// all sets. Completion is terminal; calling it again just recomputes the
// total and leaves the completion time alone.
func Complete(sess store.Session, now time.Time) store.Session {
	out := clone(sess)
	out.TotalVolume = TotalVolume(out)
	if out.Status == store.SessionCompleted {
		return out
	}
	out.Status = store.SessionCompleted
	out.CompletedAt = &now
	return out
}

// TotalVolume sums set volumes across all exercises.
func TotalVolume(sess store.Session) float64 {
	var total float64
	for _, ex := range sess.Exercises {
		total += ExerciseVolume(ex)
	}
	return total
}

// ExerciseVolume sums set volumes for one exercise.
func ExerciseVolume(ex store.SessionExercise) float64 {
	var total float64
	for _, set := range ex.Sets {
		total += set.Volume
	}
	return total
}

func clone(sess store.Session) store.Session {
	out := sess
	out.Exercises = make([]store.SessionExercise, len(sess.Exercises))
	for i, ex := range sess.Exercises {
		out.Exercises[i] = ex
		out.Exercises[i].Sets = append([]store.SetEntry(nil), ex.Sets...)
	}
	return out
}
