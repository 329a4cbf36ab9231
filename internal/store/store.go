package store

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver selects the storage engine.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store is the SQL-backed persistence layer. It implements the core's
// QuestionBank and AttemptStore interfaces.
type Store struct {
	db     *sql.DB
	driver Driver
}

// New opens the database and ensures the schema exists. For sqlite the DSN
// is a file path (":memory:" works for tests); for postgres a connection URL.
func New(driver Driver, dsn string) (*Store, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	case DriverPostgres:
		drvName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := schemaSQLite
	if s.driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := s.db.Exec(schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS quizzes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	time_limit_minutes INTEGER NOT NULL DEFAULT 0,
	passing_score INTEGER NOT NULL DEFAULT 0,
	password TEXT NOT NULL DEFAULT '',
	author_password TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS subjects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quiz_subjects (
	quiz_id INTEGER NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	question_count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (quiz_id, subject_id)
);

CREATE TABLE IF NOT EXISTS questions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	quiz_id INTEGER NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	subject_id INTEGER NOT NULL REFERENCES subjects(id),
	question_text TEXT NOT NULL,
	question_type TEXT NOT NULL DEFAULT 'multiple_choice',
	points INTEGER NOT NULL DEFAULT 1,
	order_num INTEGER NOT NULL,
	UNIQUE (quiz_id, order_num)
);

CREATE TABLE IF NOT EXISTS question_options (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	option_text TEXT NOT NULL,
	is_correct INTEGER NOT NULL DEFAULT 0,
	order_num INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	quiz_id INTEGER NOT NULL REFERENCES quizzes(id),
	status TEXT NOT NULL DEFAULT 'in_progress',
	score INTEGER,
	total_questions INTEGER,
	started_at TIMESTAMP NOT NULL,
	submitted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_answers (
	attempt_id INTEGER NOT NULL REFERENCES quiz_attempts(id) ON DELETE CASCADE,
	question_id INTEGER NOT NULL REFERENCES questions(id),
	selected_option_id INTEGER NOT NULL REFERENCES question_options(id),
	is_correct INTEGER NOT NULL DEFAULT 0,
	answered_at TIMESTAMP NOT NULL,
	PRIMARY KEY (attempt_id, question_id)
);

CREATE TABLE IF NOT EXISTS import_files (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS quizzes (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	time_limit_minutes INTEGER NOT NULL DEFAULT 0,
	passing_score INTEGER NOT NULL DEFAULT 0,
	password TEXT NOT NULL DEFAULT '',
	author_password TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS subjects (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quiz_subjects (
	quiz_id BIGINT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	question_count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (quiz_id, subject_id)
);

CREATE TABLE IF NOT EXISTS questions (
	id BIGSERIAL PRIMARY KEY,
	quiz_id BIGINT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	subject_id BIGINT NOT NULL REFERENCES subjects(id),
	question_text TEXT NOT NULL,
	question_type TEXT NOT NULL DEFAULT 'multiple_choice',
	points INTEGER NOT NULL DEFAULT 1,
	order_num INTEGER NOT NULL,
	UNIQUE (quiz_id, order_num)
);

CREATE TABLE IF NOT EXISTS question_options (
	id BIGSERIAL PRIMARY KEY,
	question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	option_text TEXT NOT NULL,
	is_correct BOOLEAN NOT NULL DEFAULT FALSE,
	order_num INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	quiz_id BIGINT NOT NULL REFERENCES quizzes(id),
	status TEXT NOT NULL DEFAULT 'in_progress',
	score INTEGER,
	total_questions INTEGER,
	started_at TIMESTAMPTZ NOT NULL,
	submitted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS user_answers (
	attempt_id BIGINT NOT NULL REFERENCES quiz_attempts(id) ON DELETE CASCADE,
	question_id BIGINT NOT NULL REFERENCES questions(id),
	selected_option_id BIGINT NOT NULL REFERENCES question_options(id),
	is_correct BOOLEAN NOT NULL DEFAULT FALSE,
	answered_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (attempt_id, question_id)
);

CREATE TABLE IF NOT EXISTS import_files (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL
);
`
