package migration

import (
	"reflect"
	"testing"
)

func TestNormalizeCoffeeAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want CoffeeRecord
	}{
		{
			name: "snake_case fields",
			raw: map[string]any{
				"id":            "coffee1",
				"name":          "Kirinyaga AA",
				"roaster":       "Luna Roasters",
				"origin":        "Kenya",
				"process":       "Washed",
				"roast_level":   "Light",
				"tasting_notes": []any{"blackcurrant", "tomato"},
				"price":         18.5,
				"image_url":     "https://cdn.example.com/kirinyaga.jpg",
			},
			want: CoffeeRecord{
				LegacyID:     "coffee1",
				Name:         "Kirinyaga AA",
				Roaster:      "Luna Roasters",
				Origin:       "Kenya",
				Process:      "Washed",
				RoastLevel:   "light",
				TastingNotes: []string{"blackcurrant", "tomato"},
				Price:        18.5,
				ImageURL:     "https://cdn.example.com/kirinyaga.jpg",
			},
		},
		{
			name: "camelCase aliases",
			raw: map[string]any{
				"id":           "coffee2",
				"name":         "Geisha Lot 8",
				"roastLevel":   "medium-light",
				"tastingNotes": []any{"jasmine"},
				"imageUrl":     "https://cdn.example.com/geisha.jpg",
			},
			want: CoffeeRecord{
				LegacyID:     "coffee2",
				Name:         "Geisha Lot 8",
				RoastLevel:   "medium-light",
				TastingNotes: []string{"jasmine"},
				ImageURL:     "https://cdn.example.com/geisha.jpg",
			},
		},
		{
			name: "images array fallback and roast default",
			raw: map[string]any{
				"id":     "coffee3",
				"name":   "House Blend",
				"images": []any{"https://cdn.example.com/house.jpg", "https://cdn.example.com/house2.jpg"},
			},
			want: CoffeeRecord{
				LegacyID:     "coffee3",
				Name:         "House Blend",
				RoastLevel:   "medium",
				TastingNotes: []string{},
				ImageURL:     "https://cdn.example.com/house.jpg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCoffee(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeCoffee() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCoffeeNeverFails(t *testing.T) {
	got := NormalizeCoffee(map[string]any{})
	if got.RoastLevel != "medium" {
		t.Errorf("empty input roast level = %q, want medium", got.RoastLevel)
	}

	// Wrong-typed fields degrade to zero values, never panic.
	got = NormalizeCoffee(map[string]any{
		"id":    42,
		"name":  []any{"not", "a", "string"},
		"price": "not-a-number",
	})
	if got.LegacyID != "" || got.Name != "" || got.Price != 0 {
		t.Errorf("wrong-typed input produced %+v, want zero values", got)
	}
}

func TestDecideAccountType(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"explicit field wins", map[string]any{"accountType": "roaster", "id": "business-1"}, "roaster"},
		{"explicit snake_case", map[string]any{"account_type": "business"}, "business"},
		{"invalid explicit falls through", map[string]any{"accountType": "admin", "id": "user1"}, "personal"},
		{"business id prefix", map[string]any{"id": "business-3", "name": "Bean Bar"}, "business"},
		{"cafe name heuristic", map[string]any{"id": "user7", "name": "Café Luna"}, "business"},
		{"roaster id prefix", map[string]any{"id": "roaster-2"}, "roaster"},
		{"roasters name heuristic", map[string]any{"id": "user9", "name": "Hidden Grounds Roasters"}, "roaster"},
		{"plain user", map[string]any{"id": "user1", "name": "Maya Chen"}, "personal"},
		{"empty record", map[string]any{}, "personal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideAccountType(tt.raw); got != tt.want {
				t.Errorf("DecideAccountType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeUser(t *testing.T) {
	raw := map[string]any{
		"id":           "user3",
		"email":        "Maya.Chen@Example.COM",
		"fullName":     "  Maya Chen ",
		"userName":     "mayabrews",
		"avatarUrl":    "https://cdn.example.com/maya.jpg",
		"location":     "Portland, OR",
		"bio":          "Pourover person",
		"rating":       4.7,
		"reviewCount":  12.0,
		"savedCoffees": []any{"coffee1", "coffee3"},
		"following":    []any{"user1", "business-2"},
	}

	got := NormalizeUser(raw)

	if got.Email != "maya.chen@example.com" {
		t.Errorf("email not lowercased: %q", got.Email)
	}
	if got.FullName != "Maya Chen" {
		t.Errorf("full name not trimmed: %q", got.FullName)
	}
	if got.AccountType != "personal" {
		t.Errorf("account type = %q, want personal", got.AccountType)
	}
	if got.ReviewCount != 12 {
		t.Errorf("review count = %d, want 12", got.ReviewCount)
	}
	if !reflect.DeepEqual(got.SavedRefs, []string{"coffee1", "coffee3"}) {
		t.Errorf("saved refs = %v", got.SavedRefs)
	}
	if !reflect.DeepEqual(got.FollowRefs, []string{"user1", "business-2"}) {
		t.Errorf("follow refs = %v", got.FollowRefs)
	}
}

func TestNormalizeRecipeBrewParams(t *testing.T) {
	nested := NormalizeRecipe(map[string]any{
		"id":       "recipe1",
		"authorId": "user1",
		"coffeeId": "coffee1",
		"rating":   4.5,
		"brewParams": map[string]any{
			"method":          "V60",
			"grindSize":       "medium-fine",
			"doseGrams":       15.0,
			"yieldGrams":      250.0,
			"tempCelsius":     94.0,
			"brewTimeSeconds": 180.0,
		},
	})

	flat := NormalizeRecipe(map[string]any{
		"id":              "recipe2",
		"authorId":        "user1",
		"coffeeId":        "coffee1",
		"method":          "V60",
		"grindSize":       "medium-fine",
		"doseGrams":       15.0,
		"yieldGrams":      250.0,
		"tempCelsius":     94.0,
		"brewTimeSeconds": 180.0,
	})

	if nested.Method != "V60" || nested.DoseGrams != 15 || nested.BrewTimeSeconds != 180 {
		t.Errorf("nested brewParams not extracted: %+v", nested)
	}
	if flat.Method != nested.Method || flat.DoseGrams != nested.DoseGrams {
		t.Errorf("flat and nested brew params diverge: %+v vs %+v", flat, nested)
	}
}

func TestNormalizeEventUnknownType(t *testing.T) {
	got := NormalizeEvent(map[string]any{
		"id":     "event1",
		"userId": "user1",
		"type":   "mystery",
	})
	if got.Type != "coffee_log" {
		t.Errorf("unknown event type mapped to %q, want coffee_log", got.Type)
	}

	got = NormalizeEvent(map[string]any{
		"id":      "event2",
		"userId":  "user2",
		"type":    "gear_added",
		"gearIds": []any{"gear1", "gear2"},
	})
	if got.Type != "gear_added" {
		t.Errorf("event type = %q, want gear_added", got.Type)
	}
	if !reflect.DeepEqual(got.GearIDs, []string{"gear1", "gear2"}) {
		t.Errorf("gear refs = %v", got.GearIDs)
	}
}
