package extract

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules describes the column conventions and heuristics applied to a sheet.
// Hospital keywords and the sheet color palette are data, not code, so new
// clinics and colors can be added without a release.
type Rules struct {
	// NameColumn is the zero-based index of the reservation holder's name.
	NameColumn int `yaml:"name_column"`
	// DateColumn is the zero-based index of the raw date/time cell.
	DateColumn int `yaml:"date_column"`
	// HospitalKeywords mark a cell as a hospital block heading.
	HospitalKeywords []string `yaml:"hospital_keywords"`
	// Palette lists the colors a sheet may be registered with.
	Palette []string `yaml:"palette"`
}

// DefaultRules mirrors the spreadsheet layout the service was built for:
// names in column E, confirmed date/time in column O.
func DefaultRules() Rules {
	return Rules{
		NameColumn: 4,
		DateColumn: 14,
		HospitalKeywords: []string{
			"병원", "클리닉", "의원", "센터", "스텔라", "엠투투",
			"피부과", "외과", "내과", "정형외과", "산부인과", "소아과", "치과", "한의원",
		},
		Palette: []string{
			"#4285f4", "#ea4335", "#fbbc04", "#34a853",
			"#ff6d01", "#46bdc6", "#7baaf7", "#9c27b0",
		},
	}
}

// Normalize fills empty keyword and palette lists with the defaults.
// Column indexes are left alone; zero is a valid column.
func (r *Rules) Normalize() {
	defaults := DefaultRules()
	if len(r.HospitalKeywords) == 0 {
		r.HospitalKeywords = defaults.HospitalKeywords
	}
	if len(r.Palette) == 0 {
		r.Palette = defaults.Palette
	}
}

// AllowsColor reports whether the color belongs to the configured palette.
func (r Rules) AllowsColor(color string) bool {
	for _, c := range r.Palette {
		if c == color {
			return true
		}
	}
	return false
}

// LoadRules reads extraction rules from a YAML file. A missing file is not
// an error; the built-in defaults are returned instead.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRules(), nil
		}
		return Rules{}, err
	}

	// Decoding over the defaults keeps them for any key the file omits,
	// while an explicit name_column: 0 still means column A.
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, err
	}

	return rules, nil
}
