package models

import "errors"

// ErrData is returned when the input table is structurally unusable
// (missing required columns, unreadable file). Load aborts on it.
var ErrData = errors.New("data error")

// ErrConfig is returned when a query parameter is invalid (e.g. k <= 0).
// It is raised before any aggregation work is done.
// Handlers should map this to HTTP 400.
var ErrConfig = errors.New("config error")

// ErrNotLoaded is returned by the view builder while no snapshot has been
// published yet. Handlers should map this to HTTP 503.
var ErrNotLoaded = errors.New("dataset not loaded")
