package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/foodlog/fdcstore/internal/domain"
)

// SurveyFood is one food object from the FNDDS survey download. Missing
// nested arrays decode to nil slices and are treated as empty.
type SurveyFood struct {
	FoodCode      int64            `json:"foodCode"`
	Description   string           `json:"description"`
	FoodNutrients []SurveyNutrient `json:"foodNutrients"`
	FoodPortions  []SurveyPortion  `json:"foodPortions"`
}

// SurveyNutrient carries one nutrient amount for a survey food.
type SurveyNutrient struct {
	Nutrient SurveyNutrientRef `json:"nutrient"`
	Amount   float64           `json:"amount"`
}

// SurveyNutrientRef identifies the nutrient by its USDA id.
type SurveyNutrientRef struct {
	ID int `json:"id"`
}

// SurveyPortion carries one portion for a survey food.
type SurveyPortion struct {
	PortionDescription string  `json:"portionDescription"`
	GramWeight         float64 `json:"gramWeight"`
}

// SurveySource streams SurveyFood objects from the hierarchical survey
// extract without materializing the whole document.
type SurveySource struct {
	path string
	file *os.File
	dec  *json.Decoder
}

// OpenSurvey opens the survey JSON and positions the decoder at the
// start of the required top-level "SurveyFoods" array. A document
// without that array is a source-format fatal error.
func OpenSurvey(path string) (*SurveySource, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	dec := json.NewDecoder(f)
	if err := seekSurveyFoods(dec); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedSource, path, err)
	}

	return &SurveySource{path: path, file: f, dec: dec}, nil
}

// seekSurveyFoods advances the decoder past the enclosing object up to
// the opening bracket of the SurveyFoods array, skipping other keys.
func seekSurveyFoods(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected top-level object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		if key == "SurveyFoods" {
			open, err := dec.Token()
			if err != nil {
				return err
			}
			if delim, ok := open.(json.Delim); !ok || delim != '[' {
				return fmt.Errorf("SurveyFoods is not an array")
			}
			return nil
		}
		// Skip the value of any other key
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}
	return fmt.Errorf("missing SurveyFoods array")
}

// Next returns the next survey food, or io.EOF when the array ends.
func (s *SurveySource) Next() (*SurveyFood, error) {
	if !s.dec.More() {
		return nil, io.EOF
	}
	var food SurveyFood
	if err := s.dec.Decode(&food); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedSource, s.path, err)
	}
	return &food, nil
}

// Close releases the underlying file handle.
func (s *SurveySource) Close() error {
	return s.file.Close()
}
