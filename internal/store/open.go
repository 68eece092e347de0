package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JonMunkholm/visitseed/internal/config"
)

// Open connects the store selected by cfg. The emulator target only applies
// to Firestore; production Firestore uses ambient or file credentials.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverFirestore:
		opts := FirestoreOptions{ProjectID: cfg.ProjectID, CredentialsFile: cfg.CredentialsFile}
		if cfg.Emulator() {
			opts.EmulatorHost = cfg.EmulatorHost
		}
		fs, err := NewFirestore(ctx, opts, logger)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, PostgresOptions{URL: cfg.DatabaseURL, MaxConns: 4}, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
