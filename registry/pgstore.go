package registry

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PGStore is the Postgres-backed Store. Records live in a single table
// keyed by derived address; serializable transactions plus row locks on
// mutation give the exclusive-writer guarantee the record contract needs.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Migrate creates the records table if it does not exist.
func (s *PGStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			address    TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			max_size   INTEGER NOT NULL,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS records_kind_idx ON records (kind);
	`)
	if err != nil {
		return errors.Wrap(err, "migrate records table")
	}
	return nil
}

func (s *PGStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errors.Wrap(err, "begin record transaction")
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit record transaction")
	}
	return nil
}

func (s *PGStore) Read(ctx context.Context, addr common.Address) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM records WHERE address = $1`, addr.Hex(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read record")
	}
	return payload, nil
}

func (s *PGStore) List(ctx context.Context, kind string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM records WHERE kind = $1 ORDER BY created_at DESC`, kind,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "scan record payload")
		}
		out = append(out, payload)
	}
	return out, rows.Err()
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Create(ctx context.Context, addr common.Address, schema Schema, payload []byte) error {
	if schema.MaxSize > 0 && len(payload) > schema.MaxSize {
		return ErrRecordTooLarge
	}
	_, err := t.tx.Exec(ctx,
		`INSERT INTO records (address, kind, max_size, payload) VALUES ($1, $2, $3, $4)`,
		addr.Hex(), schema.Kind, schema.MaxSize, payload,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return errors.Wrap(err, "create record")
	}
	return nil
}

func (t *pgTx) CreateIfAbsent(ctx context.Context, addr common.Address, schema Schema, payload []byte) ([]byte, bool, error) {
	existing, err := t.Read(ctx, addr)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	if err := t.Create(ctx, addr, schema, payload); err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (t *pgTx) Read(ctx context.Context, addr common.Address) ([]byte, error) {
	var payload []byte
	err := t.tx.QueryRow(ctx,
		`SELECT payload FROM records WHERE address = $1`, addr.Hex(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read record")
	}
	return payload, nil
}

func (t *pgTx) Mutate(ctx context.Context, addr common.Address, fn func(payload []byte) ([]byte, error)) error {
	var payload []byte
	err := t.tx.QueryRow(ctx,
		`SELECT payload FROM records WHERE address = $1 FOR UPDATE`, addr.Hex(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return errors.Wrap(err, "lock record")
	}

	next, err := fn(payload)
	if err != nil {
		return err
	}

	_, err = t.tx.Exec(ctx,
		`UPDATE records SET payload = $1, updated_at = now() WHERE address = $2`,
		next, addr.Hex(),
	)
	if err != nil {
		return errors.Wrap(err, "write record")
	}
	return nil
}
