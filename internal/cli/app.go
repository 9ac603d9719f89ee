package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/internal/entities"
	"github.com/mesh-intelligence/storefront/internal/kv"
	"github.com/mesh-intelligence/storefront/internal/metrics"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// app is an opened backend with its entity registry.
type app struct {
	settings settings
	logger   *slog.Logger
	backend  types.Backend
	registry *entities.Registry
	metrics  *metrics.Metrics
}

// openApp loads settings, opens the configured backend and builds the
// registry. When withMetrics is set the backend is instrumented.
func openApp(cmd *cobra.Command, f *rootFlags, withMetrics bool) (*app, error) {
	s, err := loadSettings(f)
	if err != nil {
		return nil, sysError(err)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
	if err != nil {
		return nil, userError(err)
	}

	backend, err := kv.Open(s.backendConfig())
	if err != nil {
		return nil, classify(fmt.Errorf("open %s backend: %w", s.Backend, err))
	}
	a := &app{settings: s, logger: logger, backend: backend}
	if withMetrics {
		a.metrics = metrics.New()
		backend = a.metrics.Instrument(backend)
	}

	a.registry, err = entities.New(backend,
		entities.WithLogger(logger),
		entities.WithStatusCycle(s.statusCycle()),
		entities.WithSeedDir(s.Dirs.Seed),
	)
	if err != nil {
		a.backend.Close()
		return nil, userError(err)
	}
	logger.Debug("backend opened", "backend", s.Backend, "data_dir", s.Dirs.Data)
	return a, nil
}

func (a *app) Close() error {
	return a.backend.Close()
}

// render writes v as indented JSON in JSON mode and as YAML otherwise.
// YAML output keeps the JSON field names.
func render(w io.Writer, jsonMode bool, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if jsonMode {
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
