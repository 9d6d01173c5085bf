package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrDuplicateUsername is returned when signup collides with an existing
// username. Username matching is case-sensitive (BINARY collation).
var ErrDuplicateUsername = errors.New("username already exists")

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chat_records (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        message TEXT NOT NULL,
        response TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) CreateUser(username, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Chat record methods

func (s *SQLiteStore) CreateChatRecord(rec *ChatRecord) error {
	rec.ID = uuid.NewString() // Ensure ID is set
	rec.CreatedAt = time.Now()

	stmt, err := s.db.Prepare("INSERT INTO chat_records (id, user_id, message, response, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chat record insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(rec.ID, rec.UserID, rec.Message, rec.Response, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute chat record insert: %w", err)
	}
	return nil
}

// GetChatRecordsByUserID returns the caller's persisted exchanges, newest
// first, capped at limit.
func (s *SQLiteStore) GetChatRecordsByUserID(userID int64, limit int) ([]ChatRecord, error) {
	query := `
        SELECT id, user_id, message, response, created_at
        FROM chat_records
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat records: %w", err)
	}
	defer rows.Close()

	var records []ChatRecord
	for rows.Next() {
		var rec ChatRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Message, &rec.Response, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat record row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
