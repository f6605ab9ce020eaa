package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/volkiswipe/umfrage/internal/models"
)

// MySQLStore backs every service with plain database/sql against MySQL.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) (*MySQLStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	return &MySQLStore{db: db}, nil
}

// Open connects to MySQL and verifies the connection.
func Open(host, name, user, password string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = name
	cfg.User = user
	cfg.Passwd = password
	cfg.ParseTime = false
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// SaveSubmission persists a participant together with their full response
// set in one transaction. A zero participant id inserts a new row; a known id
// overwrites the participant and replaces all of their responses. Any failure
// rolls the whole write back.
func (s *MySQLStore) SaveSubmission(p *models.Participant, responses []models.Response) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	id := p.ID
	if id == 0 {
		res, err := tx.Exec(
			`INSERT INTO participants (name, email, timestamp) VALUES (?, ?, ?)`,
			p.Name, p.Email, p.SubmittedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert participant: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("participant id: %w", err)
		}
	} else {
		res, err := tx.Exec(
			`UPDATE participants SET name = ?, email = ?, timestamp = ? WHERE id = ?`,
			p.Name, p.Email, p.SubmittedAt, id,
		)
		if err != nil {
			return 0, fmt.Errorf("update participant: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update participant: %w", err)
		}
		if n == 0 {
			// RowsAffected is also 0 when the update is a no-op overwrite,
			// so double-check the row exists before rejecting the id.
			var exists int
			if err := tx.QueryRow(`SELECT 1 FROM participants WHERE id = ?`, id).Scan(&exists); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return 0, models.ErrParticipantNotFound
				}
				return 0, fmt.Errorf("check participant: %w", err)
			}
		}
		if _, err := tx.Exec(`DELETE FROM responses WHERE participant_id = ?`, id); err != nil {
			return 0, fmt.Errorf("clear responses: %w", err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO responses (participant_id, question_id, response_value) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare response insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()
	for _, r := range responses {
		if _, err := stmt.Exec(id, r.QuestionID, string(r.Value)); err != nil {
			return 0, fmt.Errorf("insert response for question %d: %w", r.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// ListActiveQuestions returns the catalog in display order.
func (s *MySQLStore) ListActiveQuestions() ([]models.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, category, text, sort_order FROM questions WHERE active = 1 ORDER BY sort_order`,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	out := []models.Question{}
	for rows.Next() {
		q := models.Question{Active: true}
		if err := rows.Scan(&q.ID, &q.Category, &q.Text, &q.SortOrder); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *MySQLStore) CountParticipants() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM participants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

func (s *MySQLStore) CountResponses() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}

// ResponseStatistics returns the count of every occurring (question, value)
// pair, ordered by question id then response value ascending.
func (s *MySQLStore) ResponseStatistics() ([]models.StatRow, error) {
	rows, err := s.db.Query(
		`SELECT question_id, response_value, COUNT(*) AS count
		 FROM responses
		 GROUP BY question_id, response_value
		 ORDER BY question_id, response_value`,
	)
	if err != nil {
		return nil, fmt.Errorf("response statistics: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	out := []models.StatRow{}
	for rows.Next() {
		var r models.StatRow
		if err := rows.Scan(&r.QuestionID, &r.Value, &r.Count); err != nil {
			return nil, fmt.Errorf("scan stat row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ResponseDistribution returns per-value totals over all responses.
func (s *MySQLStore) ResponseDistribution() ([]models.ValueCount, error) {
	rows, err := s.db.Query(
		`SELECT response_value, COUNT(*) AS count FROM responses GROUP BY response_value`,
	)
	if err != nil {
		return nil, fmt.Errorf("response distribution: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	out := []models.ValueCount{}
	for rows.Next() {
		var v models.ValueCount
		if err := rows.Scan(&v.Value, &v.Count); err != nil {
			return nil, fmt.Errorf("scan distribution row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// TopQuestions ranks questions by how often they were rated important.
func (s *MySQLStore) TopQuestions(limit int) ([]models.QuestionCount, error) {
	rows, err := s.db.Query(
		`SELECT r.question_id, COALESCE(q.text, ''), COUNT(*) AS count
		 FROM responses r
		 LEFT JOIN questions q ON q.id = r.question_id
		 WHERE r.response_value IN ('sehr_wichtig', 'wichtig')
		 GROUP BY r.question_id, q.text
		 ORDER BY count DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top questions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	out := []models.QuestionCount{}
	for rows.Next() {
		var q models.QuestionCount
		if err := rows.Scan(&q.QuestionID, &q.Text, &q.Count); err != nil {
			return nil, fmt.Errorf("scan top question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// RecentParticipants returns the latest submissions, newest first.
func (s *MySQLStore) RecentParticipants(limit int) ([]models.Participant, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email, timestamp FROM participants ORDER BY timestamp DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent participants: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	out := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ExportRows joins every participant with all of their responses. Participants
// without responses still appear once, with null question/value fields.
func (s *MySQLStore) ExportRows() ([]models.ExportRow, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.name, p.email, p.timestamp, r.question_id, r.response_value
		 FROM participants p
		 LEFT JOIN responses r ON p.id = r.participant_id
		 ORDER BY p.timestamp DESC, r.question_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("export rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	out := []models.ExportRow{}
	for rows.Next() {
		var (
			row   models.ExportRow
			qid   sql.NullInt64
			value sql.NullString
		)
		if err := rows.Scan(&row.ParticipantID, &row.Name, &row.Email, &row.SubmittedAt, &qid, &value); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		if qid.Valid {
			q := int(qid.Int64)
			row.QuestionID = &q
		}
		if value.Valid {
			v := value.String
			row.Value = &v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
