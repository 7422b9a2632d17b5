package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	applog "toonranks/internal/log"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is complete.
const sentinelTable = "forum_media"

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL   PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  password      TEXT        NOT NULL DEFAULT '',
  email         TEXT        NOT NULL UNIQUE,
  role          TEXT        NOT NULL DEFAULT 'GENERAL' CHECK (role IN ('GENERAL', 'ADMIN')),
  is_verified   BOOLEAN     NOT NULL DEFAULT FALSE,
  registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_series",
		SQL: `CREATE TABLE IF NOT EXISTS series (
  id         BIGSERIAL PRIMARY KEY,
  title      TEXT      NOT NULL,
  genre      TEXT      NOT NULL,
  type       TEXT      NOT NULL CHECK (type IN ('MANGA', 'MANHWA', 'MANHUA')),
  author     TEXT      NOT NULL DEFAULT '',
  artist     TEXT      NOT NULL DEFAULT '',
  status     TEXT      CHECK (status IN ('ONGOING', 'COMPLETE', 'HIATUS', 'UNKNOWN')),
  cover_url  TEXT      NOT NULL DEFAULT '',
  vote_count INTEGER   NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_series_details",
		SQL: `CREATE TABLE IF NOT EXISTS series_details (
  id                   BIGSERIAL PRIMARY KEY,
  series_id            BIGINT    NOT NULL UNIQUE REFERENCES series (id) ON DELETE CASCADE,
  synopsis             TEXT      NOT NULL DEFAULT '',
  series_cover_url     TEXT      NOT NULL DEFAULT '',
  story_total          INTEGER   NOT NULL DEFAULT 0,
  story_count          INTEGER   NOT NULL DEFAULT 0,
  characters_total     INTEGER   NOT NULL DEFAULT 0,
  characters_count     INTEGER   NOT NULL DEFAULT 0,
  worldbuilding_total  INTEGER   NOT NULL DEFAULT 0,
  worldbuilding_count  INTEGER   NOT NULL DEFAULT 0,
  art_total            INTEGER   NOT NULL DEFAULT 0,
  art_count            INTEGER   NOT NULL DEFAULT 0,
  drama_or_fight_total INTEGER   NOT NULL DEFAULT 0,
  drama_or_fight_count INTEGER   NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_user_votes",
		SQL: `CREATE TABLE IF NOT EXISTS user_votes (
  id        BIGSERIAL PRIMARY KEY,
  user_id   BIGINT    NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  series_id BIGINT    NOT NULL REFERENCES series (id) ON DELETE CASCADE,
  category  TEXT      NOT NULL,
  score     INTEGER   NOT NULL CHECK (score BETWEEN 1 AND 10),
  CONSTRAINT uq_user_series_category UNIQUE (user_id, series_id, category)
);`,
	},
	{
		Name: "create_table_reading_lists",
		SQL: `CREATE TABLE IF NOT EXISTS reading_lists (
  id      BIGSERIAL PRIMARY KEY,
  user_id BIGINT    NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name    TEXT      NOT NULL,
  CONSTRAINT uq_reading_list_user_name UNIQUE (user_id, name)
);`,
	},
	{
		Name: "create_table_reading_list_items",
		SQL: `CREATE TABLE IF NOT EXISTS reading_list_items (
  id        BIGSERIAL PRIMARY KEY,
  list_id   BIGINT    NOT NULL REFERENCES reading_lists (id) ON DELETE CASCADE,
  series_id BIGINT    NOT NULL REFERENCES series (id) ON DELETE CASCADE,
  CONSTRAINT uq_reading_list_item UNIQUE (list_id, series_id)
);`,
	},
	{
		Name: "create_table_issues",
		SQL: `CREATE TABLE IF NOT EXISTS issues (
  id             BIGSERIAL    PRIMARY KEY,
  type           TEXT         NOT NULL CHECK (type IN ('BUG', 'FEATURE', 'CONTENT', 'OTHER')),
  title          VARCHAR(200) NOT NULL,
  description    TEXT         NOT NULL,
  page_url       TEXT,
  email          TEXT,
  screenshot_url TEXT,
  user_id        BIGINT       REFERENCES users (id) ON DELETE SET NULL,
  user_agent     VARCHAR(512),
  status         TEXT         NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN', 'IN_PROGRESS', 'FIXED', 'WONT_FIX')),
  admin_notes    TEXT,
  created_at     TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_issues_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_issues_created_at ON issues (created_at DESC);`,
	},
	{
		Name: "create_table_forum_threads",
		SQL: `CREATE TABLE IF NOT EXISTS forum_threads (
  id           BIGSERIAL    PRIMARY KEY,
  title        VARCHAR(200) NOT NULL,
  author_id    BIGINT       REFERENCES users (id) ON DELETE SET NULL,
  created_at   TIMESTAMPTZ  NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ  NOT NULL DEFAULT now(),
  post_count   INTEGER      NOT NULL DEFAULT 0,
  last_post_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
  locked       BOOLEAN      NOT NULL DEFAULT FALSE,
  latest_first BOOLEAN      NOT NULL DEFAULT FALSE
);`,
	},
	{
		Name: "create_index_forum_threads_updated_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forum_threads_updated_at ON forum_threads (updated_at DESC);`,
	},
	{
		Name: "create_table_forum_posts",
		SQL: `CREATE TABLE IF NOT EXISTS forum_posts (
  id               BIGSERIAL   PRIMARY KEY,
  thread_id        BIGINT      NOT NULL REFERENCES forum_threads (id) ON DELETE CASCADE,
  author_id        BIGINT      REFERENCES users (id) ON DELETE SET NULL,
  parent_id        BIGINT      REFERENCES forum_posts (id) ON DELETE CASCADE,
  content_markdown TEXT        NOT NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_forum_posts_thread",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_forum_posts_thread ON forum_posts (thread_id, created_at);`,
	},
	{
		Name: "create_table_forum_series_refs",
		SQL: `CREATE TABLE IF NOT EXISTS forum_series_refs (
  id        BIGSERIAL PRIMARY KEY,
  thread_id BIGINT    NOT NULL REFERENCES forum_threads (id) ON DELETE CASCADE,
  post_id   BIGINT    REFERENCES forum_posts (id) ON DELETE CASCADE,
  series_id BIGINT    NOT NULL REFERENCES series (id) ON DELETE CASCADE
);`,
	},
	{
		Name: "create_table_forum_media",
		SQL: `CREATE TABLE IF NOT EXISTS forum_media (
  id         BIGSERIAL   PRIMARY KEY,
  user_id    BIGINT      REFERENCES users (id) ON DELETE SET NULL,
  thread_id  BIGINT      NOT NULL REFERENCES forum_threads (id) ON DELETE CASCADE,
  post_id    BIGINT      REFERENCES forum_posts (id) ON DELETE SET NULL,
  url        TEXT        NOT NULL,
  mime_type  TEXT        NOT NULL,
  size_bytes INTEGER     NOT NULL,
  width      INTEGER,
  height     INTEGER,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated creates the application schema and its tables unless the
// sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, schema, dbHost string) error {
	return ensureMigrated(ctx, db, schema, dbHost, applog.WithComponent("database"))
}

func ensureMigrated(ctx context.Context, db *sql.DB, schema, dbHost string, logger zerolog.Logger) error {
	start := time.Now()
	logger = logger.With().Str("db_host", dbHost).Str("schema", schema).Logger()

	logger.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("checking schema")

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, pgx.Identifier{schema, sentinelTable}.Sanitize()).Scan(&exists); err != nil {
		logger.Error().Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	logger.Info().Str("event", "db_migration_start").Msg("applying schema")

	all := append([]migrationStep{{
		Name: "create_schema",
		SQL:  "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize() + ";",
	}}, steps...)

	for _, step := range all {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	logger.Info().
		Str("event", "db_migration_success").
		Int("steps", len(all)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema migrated")

	return nil
}
