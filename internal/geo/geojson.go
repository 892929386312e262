// Package geo reads department boundaries from a GeoJSON FeatureCollection
// (e.g. departements-version-simplifiee.geojson). Geometry is kept as raw JSON
// and handed through to renderers untouched.
package geo

import (
	stdjson "encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"prenoms/internal/models"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any     `json:"properties"`
	Geometry   stdjson.RawMessage `json:"geometry"`
}

// property keys tried in order for the department code and label.
var (
	codeKeys = []string{"code", "code_dept", "dpt"}
	nameKeys = []string{"nom", "name", "nom_dept"}
)

// LoadFile opens path and decodes it. The file is closed on every exit path.
func LoadFile(path string) ([]models.DepartmentGeometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrData, err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a FeatureCollection. Features without a code property are skipped.
func Load(r io.Reader) ([]models.DepartmentGeometry, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%w: decode geojson: %v", models.ErrData, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: expected FeatureCollection, got %q", models.ErrData, fc.Type)
	}

	out := make([]models.DepartmentGeometry, 0, len(fc.Features))
	skipped := 0
	for _, ft := range fc.Features {
		code := property(ft.Properties, codeKeys)
		if code == "" {
			skipped++
			continue
		}
		out = append(out, models.DepartmentGeometry{
			Code:     code,
			Name:     property(ft.Properties, nameKeys),
			Boundary: ft.Geometry,
		})
	}

	slog.Info("department geometry loaded", "features", len(out), "skipped", skipped)
	return out, nil
}

func property(props map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := props[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%02d", int(v))
		}
	}
	return ""
}
