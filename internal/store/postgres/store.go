package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/migrations"
)

type Store struct {
	pool            *pgxpool.Pool
	orgs            *OrgRepo
	principals      *PrincipalRepo
	users           *UserRepo
	profiles        *ProfileRepo
	dataSources     *DataSourceRepo
	dataPoints      *DataPointRepo
	recommendations *RecommendationRepo
	onboardingRuns  *OnboardingRunRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	err = applyMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: %w", err)
	}

	return &Store{
		pool:            pool,
		orgs:            NewOrgRepo(pool),
		principals:      NewPrincipalRepo(pool),
		users:           NewUserRepo(pool),
		profiles:        NewProfileRepo(pool),
		dataSources:     NewDataSourceRepo(pool),
		dataPoints:      NewDataPointRepo(pool),
		recommendations: NewRecommendationRepo(pool),
		onboardingRuns:  NewOnboardingRunRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Organizations() domain.OrganizationRepository     { return s.orgs }
func (s *Store) Principals() domain.PrincipalRepository           { return s.principals }
func (s *Store) Users() domain.UserRepository                     { return s.users }
func (s *Store) Profiles() domain.ClientProfileRepository         { return s.profiles }
func (s *Store) DataSources() domain.DataSourceRepository         { return s.dataSources }
func (s *Store) DataPoints() domain.DataPointRepository           { return s.dataPoints }
func (s *Store) Recommendations() domain.RecommendationRepository { return s.recommendations }
func (s *Store) OnboardingRuns() domain.OnboardingRunRepository   { return s.onboardingRuns }

// applyMigrations runs the embedded SQL migrations that have not been
// applied yet, in lexical order. Each file runs in its own transaction
// together with its schema_migrations record.
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		var applied bool
		err = pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		sql, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		// Simple protocol: migration files hold multiple statements.
		if _, err := tx.Conn().PgConn().Exec(ctx, string(sql)).ReadAll(); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1)`, name,
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}

		log.Info().Str("migration", name).Msg("applied schema migration")
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505). Slug and email uniqueness rely on this rather
// than application-level pre-checks alone.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
