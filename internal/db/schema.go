package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates the three survey tables. Safe to call on every start,
// all statements use IF NOT EXISTS. The question catalog itself is seeded
// externally.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS participants (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL
	) CHARACTER SET utf8mb4`,

	`CREATE TABLE IF NOT EXISTS questions (
		id INT PRIMARY KEY,
		category VARCHAR(255) NOT NULL,
		text TEXT NOT NULL,
		sort_order INT NOT NULL DEFAULT 0,
		active TINYINT(1) NOT NULL DEFAULT 1
	) CHARACTER SET utf8mb4`,

	`CREATE TABLE IF NOT EXISTS responses (
		participant_id INT NOT NULL,
		question_id INT NOT NULL,
		response_value VARCHAR(32) NOT NULL,
		PRIMARY KEY (participant_id, question_id),
		INDEX idx_responses_question (question_id),
		CONSTRAINT fk_responses_participant
			FOREIGN KEY (participant_id) REFERENCES participants(id)
			ON DELETE CASCADE
	) CHARACTER SET utf8mb4`,
}
