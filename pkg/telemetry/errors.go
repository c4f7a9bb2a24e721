package telemetry

import "errors"

var (
	ErrExporterFailed = errors.New("telemetry: failed to create prometheus exporter")
	ErrRegisterFailed = errors.New("telemetry: failed to register collector")
	ErrShutdownFailed = errors.New("telemetry: meter provider shutdown failed")
)
