package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbanwave/internal/board"
	"github.com/mesh-intelligence/kanbanwave/internal/memory"
	"github.com/mesh-intelligence/kanbanwave/internal/paths"
	"github.com/mesh-intelligence/kanbanwave/internal/sqlite"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// session is an attached storage backend with its board service.
type session struct {
	storage types.Storage
	svc     *board.Service
	logger  *logrus.Logger
	config  types.Config
}

func newLogger(cmd *cobra.Command, f *rootFlags) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetLevel(logrus.WarnLevel)
	if f.verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	if f.jsonMode {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// resolveConfig builds the storage config from flags, config.yaml, and the
// environment, in that order of precedence.
func resolveConfig(f *rootFlags) (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}
	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	backend := f.backend
	if backend == "" {
		backend = v.GetString(cfgKeyBackend)
	}
	cfg := types.Config{
		Backend:      backend,
		DataDir:      dataDir,
		SyncStrategy: v.GetString(cfgKeySyncStrategy),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newStorage returns a detached backend for cfg.Backend.
func newStorage(cfg types.Config) types.Storage {
	if cfg.Backend == types.BackendMemory {
		return memory.New()
	}
	return sqlite.NewBackend()
}

// openSession attaches the configured backend. The caller must call close.
func openSession(cmd *cobra.Command, f *rootFlags) (*session, error) {
	cfg, err := resolveConfig(f)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, f)

	storage := newStorage(cfg)
	if err := storage.Attach(cfg); err != nil {
		return nil, systemError(fmt.Errorf("attach %s backend: %w", cfg.Backend, err))
	}
	units, err := storage.Units()
	if err != nil {
		storage.Detach()
		return nil, systemError(err)
	}
	logger.WithFields(logrus.Fields{
		"backend": cfg.Backend, "data_dir": cfg.DataDir,
	}).Debug("storage attached")

	return &session{
		storage: storage,
		svc:     board.NewService(units, board.WithLogger(logger)),
		logger:  logger,
		config:  cfg,
	}, nil
}

func (s *session) close() error {
	if err := s.storage.Detach(); err != nil {
		return systemError(fmt.Errorf("detach: %w", err))
	}
	return nil
}

// withSession runs fn against an attached session and detaches afterwards.
// Unclassified errors from fn are reported as system errors, so fn must
// check user input before it touches storage.
func withSession(cmd *cobra.Command, f *rootFlags, fn func(ctx context.Context, s *session) error) (err error) {
	s, err := openSession(cmd, f)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()
	return storageError(fn(cmd.Context(), s))
}
