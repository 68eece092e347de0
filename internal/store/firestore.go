package store

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreOptions selects the Firestore project and endpoint.
type FirestoreOptions struct {
	ProjectID string

	// EmulatorHost, when set, points the client at a local emulator.
	EmulatorHost string

	// CredentialsFile is used against production when set; otherwise the
	// ambient application default credentials apply.
	CredentialsFile string
}

// Firestore is a Store backed by Cloud Firestore or its emulator.
type Firestore struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestore connects to Firestore. The connection handle is owned by the
// returned store; callers pass the store around instead of a global client.
func NewFirestore(ctx context.Context, opts FirestoreOptions, logger *zap.Logger) (*Firestore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var clientOpts []option.ClientOption
	if opts.EmulatorHost != "" {
		// the client library only reads the emulator address from the environment
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", opts.EmulatorHost); err != nil {
			return nil, errors.Wrap(err, "set emulator host")
		}
	} else {
		// a leftover emulator address would override the production endpoint
		if err := os.Unsetenv("FIRESTORE_EMULATOR_HOST"); err != nil {
			return nil, errors.Wrap(err, "clear emulator host")
		}
		if opts.CredentialsFile != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to firestore project %s", opts.ProjectID)
	}

	logger.Info("connected to firestore",
		zap.String("project_id", opts.ProjectID),
		zap.Bool("emulator", opts.EmulatorHost != ""),
		zap.String("emulator_host", opts.EmulatorHost),
	)
	return &Firestore{client: client, logger: logger}, nil
}

func (f *Firestore) Commit(ctx context.Context, collection string, ops []Op) error {
	col := f.client.Collection(collection)
	batch := f.client.Batch()
	for _, op := range ops {
		ref := col.Doc(op.ID)
		switch op.Kind {
		case OpSet:
			batch.Set(ref, op.Data)
		case OpDelete:
			batch.Delete(ref)
		}
	}
	if _, err := batch.Commit(ctx); err != nil {
		return errors.Wrapf(err, "commit %d operations to %s", len(ops), collection)
	}
	return nil
}

func (f *Firestore) ListIDs(ctx context.Context, collection string) ([]string, error) {
	iter := f.client.Collection(collection).DocumentRefs(ctx)
	var ids []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "list documents of %s", collection)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
