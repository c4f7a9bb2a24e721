package telemetry

// Config holds metrics export settings.
type Config struct {
	Path      string `env:"METRICS_PATH" env-default:"/metrics" yaml:"path"`
	Namespace string `env:"METRICS_NAMESPACE" yaml:"namespace"`
	Enabled   bool   `env:"METRICS_ENABLED" env-default:"true" yaml:"enabled"`
}
