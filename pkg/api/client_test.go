package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ntrack/pkg/models"
)

func TestGetAppendsTimezoneOffset(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Get(context.Background(), "/api/meals/today", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if query == "" || !containsParam(query, "tz_offset") {
		t.Errorf("query %q missing tz_offset", query)
	}

	// Existing query strings get '&', not a second '?'.
	if err := c.Get(context.Background(), "/api/meals/suggest?remaining_cal=400", nil); err != nil {
		t.Fatalf("Get with query: %v", err)
	}
	if !containsParam(query, "remaining_cal") || !containsParam(query, "tz_offset") {
		t.Errorf("query %q should carry both params", query)
	}
}

func containsParam(rawQuery, name string) bool {
	req, _ := http.NewRequest("GET", "http://x/?"+rawQuery, nil)
	return req.URL.Query().Get(name) != ""
}

func TestUnauthorizedReturnsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out models.DaySummary
	err := c.Get(context.Background(), "/api/meals/today", &out)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if out.Target != 0 || len(out.Meals) != 0 {
		t.Errorf("out should be untouched on 401, got %+v", out)
	}
}

func TestServerErrorShapes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error flag with message", 400, `{"error": true, "message": "Target is required"}`, "Target is required"},
		{"error flag without message", 500, `{"error": true}`, "request failed"},
		{"success false with error string", 500, `{"success": false, "error": "boom"}`, "boom"},
		{"success false bare", 200, `{"success": false}`, "request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL)
			err := c.Post(context.Background(), "/api/meals/log", map[string]any{}, nil)
			var serr *ServerError
			if !errors.As(err, &serr) {
				t.Fatalf("err = %v, want *ServerError", err)
			}
			if serr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", serr.Message, tt.wantMsg)
			}
		})
	}
}

func TestSuccessfulDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"food_name": "Banana", "calories": 105, "protein": 1.3,
			"carbs": 27, "fat": 0.4, "food_score": 8, "portion_estimate": "1 medium",
			"health_benefits": ["potassium"], "health_negatives": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out models.Analysis
	if err := c.Post(context.Background(), "/api/meals/analyze-text", map[string]string{"query": "banana"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if out.FoodName != "Banana" || out.Calories != 105 || out.FoodScore != 8 {
		t.Errorf("decoded %+v", out)
	}
}

func TestPostFileSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "meal.jpg" {
			http.Error(w, "wrong filename", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"food_name": "Toast", "calories": 80, "food_score": 5,
			"health_benefits": [], "health_negatives": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var out models.Analysis
	err := c.PostFile(context.Background(), "/api/meals/analyze", "image", "meal.jpg", []byte("jpegdata"), &out)
	if err != nil {
		t.Fatalf("PostFile: %v", err)
	}
	if out.FoodName != "Toast" {
		t.Errorf("decoded %+v", out)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/api/meals/today", nil)
	if err == nil {
		t.Fatal("expected error for non-JSON 502 body")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("must not be unauthorized")
	}
}
