package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// Transactions need a replica set (a single-node "rs0" is enough for development).
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	// Plan payloads are schema-less documents; decode nested documents as maps so
	// they serialise back to JSON objects instead of key/value pairs.
	clientOptions := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// mongoTransactor implements repository.Transactor with client sessions.
type mongoTransactor struct {
	client *mongo.Client
}

// NewTransactor creates a Transactor bound to the client.
func NewTransactor(client *mongo.Client) repository.Transactor {
	return &mongoTransactor{client: client}
}

// WithinTransaction runs fn exactly once inside a multi-document transaction.
// session.WithTransaction is not used because it re-runs the callback on
// transient errors, which would repeat the call to the generation provider.
// Errors MongoDB labels as transient transaction failures come back wrapped in
// repository.ErrConflict.
func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			abortCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()
			if abortErr := session.AbortTransaction(abortCtx); abortErr != nil {
				return errors.Join(err, abortErr)
			}
			return err
		}
		return session.CommitTransaction(sc)
	})
	return classifyTxError(err)
}

// classifyTxError maps write conflicts between concurrent transactions to
// repository.ErrConflict, keeping the driver error in the chain.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorLabel(driverTransientTxLabel) {
		return fmt.Errorf("%w: %w", repository.ErrConflict, err)
	}
	return err
}

const driverTransientTxLabel = "TransientTransactionError"

// EnsureIndexes creates the indexes for every collection. Call during startup;
// index builds cannot run inside a transaction.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return errors.Join(
		EnsureUserIndexes(ctx, db.Collection(userCollectionName)),
		EnsurePreferenceIndexes(ctx, db.Collection(preferenceCollectionName)),
		EnsurePlanBundleIndexes(ctx, db.Collection(planBundleCollectionName)),
		EnsureGenerationLogIndexes(ctx, db.Collection(generationLogCollectionName)),
		EnsureCompletionIndexes(ctx, db.Collection(completionCollectionName)),
		EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName)),
		EnsureFoodItemIndexes(ctx, db.Collection(foodItemCollectionName)),
	)
}
