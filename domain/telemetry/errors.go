package telemetry

import "errors"

var (
	// ErrUnknownExporter indicates an exporter name no provider supports.
	ErrUnknownExporter = errors.New("unknown exporter")

	// ErrExporterFailed indicates the exporter could not be created.
	ErrExporterFailed = errors.New("exporter failed")
)
