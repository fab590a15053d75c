package detection

import (
	"sort"

	"github.com/pkg/errors"
)

// Profile is a named set of segmentation and classification parameters.
//
// The built-in profiles mirror the two capture paths the detector serves:
// live camera frames (small, noisy, opened with a 5x5 kernel) and gallery
// photos (rescaled to a fixed size, coarser polygon approximation).
type Profile struct {
	// Name identifies the profile in tool arguments and results.
	Name string `json:"name"`

	// Ranges are OR-combined into the color mask.
	Ranges []HSVRange `json:"ranges"`

	// OpenKernel is the side of the square structuring element used for
	// morphological opening. Values <= 1 disable opening.
	OpenKernel int `json:"open_kernel"`

	// Epsilon is the polygon approximation tolerance as a fraction of the
	// contour perimeter.
	Epsilon float64 `json:"epsilon"`

	// MinArea is the smallest enclosed contour area (square pixels) that is
	// classified at all.
	MinArea float64 `json:"min_area"`

	// CircleCircularity is the circularity at or above which a contour is a
	// circle regardless of its vertex count.
	CircleCircularity float64 `json:"circle_circularity"`

	// PolygonCircularity is the minimum circularity for a polygon with five
	// or more vertices to be reported as a circle.
	PolygonCircularity float64 `json:"polygon_circularity"`

	// MaxDimension rescales the input so its longer side equals this value
	// before detection. Zero keeps the input size.
	MaxDimension int `json:"max_dimension,omitempty"`
}

// DefaultProfileName is used when no profile is requested.
const DefaultProfileName = "camera"

var builtinProfiles = map[string]Profile{
	"camera": {
		Name: "camera",
		Ranges: []HSVRange{
			{Lower: HSV{H: 150, S: 50, V: 50}, Upper: HSV{H: 180, S: 255, V: 255}},
		},
		OpenKernel:         5,
		Epsilon:            0.02,
		MinArea:            150,
		CircleCircularity:  0.83,
		PolygonCircularity: 0.7,
	},
	"photo": {
		Name: "photo",
		Ranges: []HSVRange{
			// red wraps around hue 0, so pink-to-red needs both ends
			{Lower: HSV{H: 0, S: 50, V: 120}, Upper: HSV{H: 5, S: 255, V: 255}},
			{Lower: HSV{H: 130, S: 50, V: 50}, Upper: HSV{H: 180, S: 255, V: 255}},
		},
		Epsilon:            0.06,
		MinArea:            200,
		CircleCircularity:  0.83,
		PolygonCircularity: 0.7,
		MaxDimension:       1280,
	},
	"red": {
		Name: "red",
		Ranges: []HSVRange{
			{Lower: HSV{H: 0, S: 100, V: 100}, Upper: HSV{H: 10, S: 255, V: 255}},
			{Lower: HSV{H: 160, S: 100, V: 100}, Upper: HSV{H: 179, S: 255, V: 255}},
		},
		OpenKernel:         5,
		Epsilon:            0.02,
		MinArea:            150,
		CircleCircularity:  0.83,
		PolygonCircularity: 0.7,
	},
}

// LookupProfile returns a copy of the built-in profile with the given name.
// An empty name selects DefaultProfileName.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfileName
	}
	p, ok := builtinProfiles[name]
	if !ok {
		return Profile{}, errors.Errorf("unknown profile %q", name)
	}
	p.Ranges = append([]HSVRange(nil), p.Ranges...)
	return p, nil
}

// ProfileNames lists the built-in profiles in alphabetical order.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports the first parameter that would make detection meaningless.
func (p Profile) Validate() error {
	if len(p.Ranges) == 0 {
		return errors.Errorf("profile %q has no color ranges", p.Name)
	}
	for i, r := range p.Ranges {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "profile %q range %d", p.Name, i)
		}
	}
	if p.Epsilon <= 0 || p.Epsilon >= 1 {
		return errors.Errorf("profile %q epsilon %.3f outside (0,1)", p.Name, p.Epsilon)
	}
	if p.MinArea < 0 {
		return errors.Errorf("profile %q min area must not be negative", p.Name)
	}
	if p.CircleCircularity <= 0 || p.CircleCircularity > 1 {
		return errors.Errorf("profile %q circle circularity %.3f outside (0,1]", p.Name, p.CircleCircularity)
	}
	if p.PolygonCircularity < 0 || p.PolygonCircularity > p.CircleCircularity {
		return errors.Errorf("profile %q polygon circularity must lie in [0, circle circularity]", p.Name)
	}
	if p.OpenKernel < 0 || p.MaxDimension < 0 {
		return errors.Errorf("profile %q has a negative size parameter", p.Name)
	}
	return nil
}
