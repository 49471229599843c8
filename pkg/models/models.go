package models

import "time"

// Analysis is the flat object returned by the analyze endpoints. All macro
// values are for a 1x portion; scaling happens client-side.
type Analysis struct {
	FoodName        string   `json:"food_name"`
	Calories        float64  `json:"calories"`
	Protein         float64  `json:"protein"`
	Carbs           float64  `json:"carbs"`
	Fat             float64  `json:"fat"`
	FoodScore       int      `json:"food_score"`
	PortionEstimate string   `json:"portion_estimate,omitempty"`
	HealthBenefits  []string `json:"health_benefits"`
	HealthNegatives []string `json:"health_negatives"`
	Thumbnail       string   `json:"thumbnail,omitempty"`
}

// MealLog is the payload for POST /api/meals/log. It carries both the scaled
// values and the unscaled originals plus the multiplier as provenance.
type MealLog struct {
	FoodName          string   `json:"food_name"`
	Calories          float64  `json:"calories"`
	Protein           float64  `json:"protein"`
	Carbs             float64  `json:"carbs"`
	Fat               float64  `json:"fat"`
	FoodScore         int      `json:"food_score"`
	HealthBenefits    []string `json:"health_benefits"`
	HealthNegatives   []string `json:"health_negatives"`
	PortionMultiplier float64  `json:"portion_multiplier"`
	OriginalPortion   string   `json:"original_portion,omitempty"`
	OriginalCalories  float64  `json:"original_calories"`
	OriginalProtein   float64  `json:"original_protein"`
	OriginalCarbs     float64  `json:"original_carbs"`
	OriginalFat       float64  `json:"original_fat"`
	EntryMethod       string   `json:"entry_method"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
}

// Meal is a logged meal as returned by /api/meals/today.
type Meal struct {
	ID              int       `json:"id"`
	FoodName        string    `json:"food_name"`
	Calories        float64   `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fat             float64   `json:"fat"`
	FoodScore       int       `json:"food_score"`
	HealthBenefits  []string  `json:"health_benefits"`
	HealthNegatives []string  `json:"health_negatives"`
	LoggedAt        time.Time `json:"logged_at"`
	HasImage        bool      `json:"has_image"`
}

// DaySummary is the /api/meals/today response.
type DaySummary struct {
	Meals         []Meal  `json:"meals"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
	Target        int     `json:"target"`
	ProgressPct   float64 `json:"progress_pct"`
}

// WeekDay is one entry of the weekly summary's days array.
type WeekDay struct {
	Date          string  `json:"date"`
	DayName       string  `json:"day_name"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
	MealCount     int     `json:"meal_count"`
}

// WeeklySummary is the /api/dashboard/weekly response.
type WeeklySummary struct {
	Days            []WeekDay `json:"days"`
	AverageCalories float64   `json:"average_calories"`
	Target          int       `json:"target"`
}

// Suggestion is one meal suggestion entry.
type Suggestion struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Reason   string `json:"reason"`
}

// TaskItem is a shared to-do entry from /todo/api/tasks.
type TaskItem struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CreatedBy    string     `json:"created_by"`
	CreatedByID  int        `json:"created_by_id"`
	AssignedTo   string     `json:"assigned_to"`
	AssignedToID *int       `json:"assigned_to_id"`
	IsCompleted  bool       `json:"is_completed"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// User is a to-do board user.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// DevLogEntry is a changelog entry from /api/devboard/logs.
type DevLogEntry struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CommitHash  string    `json:"commit_hash,omitempty"`
	CommitURL   string    `json:"commit_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// DevStats is the /api/devboard/stats response.
type DevStats struct {
	TotalLogs  int            `json:"total_logs"`
	Categories map[string]int `json:"categories"`
	Statuses   map[string]int `json:"statuses"`
}

// NewsArticle is one article from /news/api/fetch or the direct feed mode.
// Link is the identity key for bookmark and read tracking.
type NewsArticle struct {
	Title             string `json:"title"`
	Link              string `json:"link"`
	Description       string `json:"description"`
	Source            string `json:"source"`
	Published         string `json:"published"`
	PublishedReadable string `json:"published_readable"`
	Image             string `json:"image,omitempty"`
}

// AuthStatus is the /auth/status response.
type AuthStatus struct {
	LoggedIn      bool   `json:"logged_in"`
	UserID        int    `json:"user_id"`
	Username      string `json:"username"`
	CalorieTarget int    `json:"calorie_target"`
}
