package tracker

import (
	"math"
	"time"

	"ntrack/pkg/models"
)

// ProgressState is the visual state of the calorie progress bar.
type ProgressState int

const (
	ProgressNormal ProgressState = iota
	ProgressWarning
	ProgressDanger
)

// ProgressPercent returns the bar width percentage, capped at 100.
func ProgressPercent(current float64, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := current / float64(target) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Progress classifies the bar: danger from 100% of target, warning from 75%.
func Progress(current float64, target int) ProgressState {
	if target <= 0 {
		return ProgressNormal
	}
	ratio := current / float64(target)
	switch {
	case ratio >= 1.0:
		return ProgressDanger
	case ratio >= 0.75:
		return ProgressWarning
	default:
		return ProgressNormal
	}
}

// ScoreBucket is the badge class for a food score.
type ScoreBucket int

const (
	ScoreLow ScoreBucket = iota
	ScoreMid
	ScoreHigh
)

// BucketScore maps a 0-10 food score to its badge bucket.
func BucketScore(score int) ScoreBucket {
	switch {
	case score >= 7:
		return ScoreHigh
	case score >= 4:
		return ScoreMid
	default:
		return ScoreLow
	}
}

// ValidMultiplier reports whether m is an acceptable portion multiplier.
func ValidMultiplier(m float64) bool {
	return m > 0 && m <= 10
}

// Scaled holds rounded macro values for an analysis at a given multiplier.
type Scaled struct {
	Calories int
	Protein  int
	Carbs    int
	Fat      int
}

// Scale applies a portion multiplier to all four macro fields of the base
// (1x) analysis and rounds each for display.
func Scale(a models.Analysis, m float64) Scaled {
	return Scaled{
		Calories: int(math.Round(a.Calories * m)),
		Protein:  int(math.Round(a.Protein * m)),
		Carbs:    int(math.Round(a.Carbs * m)),
		Fat:      int(math.Round(a.Fat * m)),
	}
}

// BuildMealLog assembles the log payload: scaled values, the untouched 1x
// originals, and the multiplier itself as provenance.
func BuildMealLog(a models.Analysis, m float64, entryMethod string) models.MealLog {
	s := Scale(a, m)
	return models.MealLog{
		FoodName:          a.FoodName,
		Calories:          float64(s.Calories),
		Protein:           float64(s.Protein),
		Carbs:             float64(s.Carbs),
		Fat:               float64(s.Fat),
		FoodScore:         a.FoodScore,
		HealthBenefits:    a.HealthBenefits,
		HealthNegatives:   a.HealthNegatives,
		PortionMultiplier: m,
		OriginalPortion:   a.PortionEstimate,
		OriginalCalories:  a.Calories,
		OriginalProtein:   a.Protein,
		OriginalCarbs:     a.Carbs,
		OriginalFat:       a.Fat,
		EntryMethod:       entryMethod,
		Thumbnail:         a.Thumbnail,
	}
}

// SuggestionsWanted reports whether the dashboard should request meal
// suggestions: some calories left but fewer than 500, and at least one meal
// already logged.
func SuggestionsWanted(totalCalories float64, target, mealCount int) bool {
	remaining := float64(target) - totalCalories
	return remaining > 0 && remaining < 500 && mealCount > 0
}

// ValidTarget reports whether t is an acceptable daily calorie target.
func ValidTarget(t int) bool {
	return t >= 500 && t <= 10000
}

// WeekStats are the aggregates derived client-side from a weekly summary.
type WeekStats struct {
	ActiveDays int
	MaxDay     *models.WeekDay
	MinDay     *models.WeekDay
	AvgProtein int
	AvgCarbs   int
	AvgFat     int
}

// ComputeWeekStats derives max/min day and macro averages over active days
// only (total_calories > 0). Ties keep the first day encountered; with no
// active days every average is zero.
func ComputeWeekStats(days []models.WeekDay) WeekStats {
	var stats WeekStats
	var protein, carbs, fat float64

	for i := range days {
		d := &days[i]
		if d.TotalCalories <= 0 {
			continue
		}
		stats.ActiveDays++
		protein += d.TotalProtein
		carbs += d.TotalCarbs
		fat += d.TotalFat
		if stats.MaxDay == nil || d.TotalCalories > stats.MaxDay.TotalCalories {
			stats.MaxDay = d
		}
		if stats.MinDay == nil || d.TotalCalories < stats.MinDay.TotalCalories {
			stats.MinDay = d
		}
	}

	if stats.ActiveDays > 0 {
		n := float64(stats.ActiveDays)
		stats.AvgProtein = int(math.Round(protein / n))
		stats.AvgCarbs = int(math.Round(carbs / n))
		stats.AvgFat = int(math.Round(fat / n))
	}
	return stats
}

// HistoryMeals returns the meals to show for a selected date. Only the
// today endpoint exists, so a selection other than the current local day
// yields an empty set; for today it is the subset whose local calendar day
// matches the selection.
func HistoryMeals(meals []models.Meal, selected, now time.Time) []models.Meal {
	if !sameDay(selected, now) {
		return nil
	}
	var out []models.Meal
	for _, m := range meals {
		if sameDay(m.LoggedAt.Local(), selected) {
			out = append(out, m)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MealTotals sums the macro fields of a meal set.
func MealTotals(meals []models.Meal) (cal, protein, carbs, fat float64) {
	for _, m := range meals {
		cal += m.Calories
		protein += m.Protein
		carbs += m.Carbs
		fat += m.Fat
	}
	return
}

// TaskFilter selects which slice of the fetched task set is visible.
type TaskFilter int

const (
	TasksAll TaskFilter = iota
	TasksPending
	TasksCompleted
	TasksMine
)

// FilterTasks applies a pure predicate over the fetched set; it never
// refetches. "Mine" means created by or assigned to the current user.
func FilterTasks(tasks []models.TaskItem, filter TaskFilter, userID int) []models.TaskItem {
	var out []models.TaskItem
	for _, t := range tasks {
		switch filter {
		case TasksPending:
			if t.IsCompleted {
				continue
			}
		case TasksCompleted:
			if !t.IsCompleted {
				continue
			}
		case TasksMine:
			assigned := t.AssignedToID != nil && *t.AssignedToID == userID
			if t.CreatedByID != userID && !assigned {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// TaskStats are the counters above the task list.
type TaskStats struct {
	Total     int
	Completed int
	Pending   int
}

// CountTasks computes stats over the full (unfiltered) task set.
func CountTasks(tasks []models.TaskItem) TaskStats {
	s := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
