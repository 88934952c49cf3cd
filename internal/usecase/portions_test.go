package usecase

import "testing"

func TestNewPortion(t *testing.T) {
	tests := []struct {
		name        string
		description string
		multiplier  float64
		gramWeight  float64
		wantDesc    string
		wantGrams   float64
		wantOK      bool
	}{
		{
			name:        "unit multiplier keeps description",
			description: "1 cup",
			multiplier:  1,
			gramWeight:  244,
			wantDesc:    "1 cup",
			wantGrams:   244,
			wantOK:      true,
		},
		{
			name:        "multiplier prefixes description",
			description: "slice",
			multiplier:  2,
			gramWeight:  28,
			wantDesc:    "2 slice",
			wantGrams:   28,
			wantOK:      true,
		},
		{
			name:        "fractional multiplier keeps precision",
			description: "cup",
			multiplier:  0.25,
			gramWeight:  61,
			wantDesc:    "0.25 cup",
			wantGrams:   61,
			wantOK:      true,
		},
		{
			name:        "gram weight rounds to one decimal",
			description: "tbsp",
			multiplier:  1,
			gramWeight:  14.1875,
			wantDesc:    "tbsp",
			wantGrams:   14.2,
			wantOK:      true,
		},
		{
			name:        "blank description is dropped",
			description: "   ",
			multiplier:  1,
			gramWeight:  100,
			wantOK:      false,
		},
		{
			name:        "zero gram weight is dropped",
			description: "cup",
			multiplier:  1,
			gramWeight:  0,
			wantOK:      false,
		},
		{
			name:        "negative gram weight is dropped",
			description: "cup",
			multiplier:  1,
			gramWeight:  -5,
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portion, ok := NewPortion(tt.description, tt.multiplier, tt.gramWeight)
			if ok != tt.wantOK {
				t.Fatalf("NewPortion() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if portion.Description != tt.wantDesc {
				t.Errorf("NewPortion() description = %q, want %q", portion.Description, tt.wantDesc)
			}
			if portion.GramWeight != tt.wantGrams {
				t.Errorf("NewPortion() gramWeight = %v, want %v", portion.GramWeight, tt.wantGrams)
			}
		})
	}
}

func TestResolvePortion(t *testing.T) {
	tests := []struct {
		name        string
		description string
		multiplier  string
		gramWeight  string
		wantDesc    string
		wantGrams   float64
		wantOK      bool
	}{
		{
			name:        "plain row",
			description: "cup, diced",
			multiplier:  "1",
			gramWeight:  "132",
			wantDesc:    "cup, diced",
			wantGrams:   132,
			wantOK:      true,
		},
		{
			name:        "multiplier folds into description",
			description: "slice",
			multiplier:  "2",
			gramWeight:  "56",
			wantDesc:    "2 slice",
			wantGrams:   56,
			wantOK:      true,
		},
		{
			name:        "empty multiplier counts as one",
			description: "pat",
			multiplier:  "",
			gramWeight:  "5",
			wantDesc:    "pat",
			wantGrams:   5,
			wantOK:      true,
		},
		{
			name:        "unparseable multiplier counts as one",
			description: "pat",
			multiplier:  "about",
			gramWeight:  "5",
			wantDesc:    "pat",
			wantGrams:   5,
			wantOK:      true,
		},
		{
			name:        "unparseable gram weight drops the portion",
			description: "cup",
			multiplier:  "1",
			gramWeight:  "n/a",
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portion, ok := ResolvePortion(tt.description, tt.multiplier, tt.gramWeight)
			if ok != tt.wantOK {
				t.Fatalf("ResolvePortion() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if portion.Description != tt.wantDesc {
				t.Errorf("ResolvePortion() description = %q, want %q", portion.Description, tt.wantDesc)
			}
			if portion.GramWeight != tt.wantGrams {
				t.Errorf("ResolvePortion() gramWeight = %v, want %v", portion.GramWeight, tt.wantGrams)
			}
		})
	}
}
