package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TON_rewards_miniapp/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Closed set of storage-level failures. The service layer maps these once;
// nothing downstream inspects error text.
var (
	ErrNotFound = errors.New("not found")

	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskInactive       = errors.New("task inactive")
	ErrTaskAlreadyClaimed = errors.New("task already claimed")

	ErrDuplicateReferral = errors.New("referral already exists")
	ErrSelfReferral      = errors.New("self referral")

	ErrMiningInProgress = errors.New("mining session already in progress")
	ErrMiningNotStarted = errors.New("mining session not started")
)

type Repository struct {
	db *sqlx.DB

	// In-memory mining session start times, keyed by telegram_id. The
	// persisted last_started_at survives restarts; this map is the hot path.
	miningSessions map[int64]time.Time
	sync.Mutex
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func New(cfg Config) (*Repository, error) {
	db, err := sqlx.Connect("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger().Info("Connected to database successfully")

	return &Repository{
		db:             db,
		miningSessions: make(map[int64]time.Time),
	}, nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}
