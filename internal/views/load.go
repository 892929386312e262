package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"prenoms/internal/engine"
	"prenoms/internal/geo"
	"prenoms/internal/models"
)

// LoadAll reads the births table and the geometry concurrently and publishes
// them to b. geoPath may be empty. Nothing is published if either load fails
// or ctx is done by the time both have finished.
func (b *Builder) LoadAll(ctx context.Context, dataPath, geoPath string, opts engine.LoadOptions) error {
	var (
		store *engine.RecordStore
		geoms []models.DepartmentGeometry
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		store, err = engine.LoadFile(dataPath, opts)
		return err
	})
	if geoPath != "" {
		g.Go(func() error {
			var err error
			geoms, err = geo.LoadFile(geoPath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.Reload(store, geoms)
	return nil
}
