package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Session is the editing state restored on the next start.
type Session struct {
	Pattern string
	Text    string
	Engine  string
	Updated time.Time
}

// Save overwrites the stored session.
func (s *Store) Save(sess Session) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO session (id, pattern, text, engine, updated) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET pattern = excluded.pattern, text = excluded.text,
		 engine = excluded.engine, updated = excluded.updated`,
		sess.Pattern, sess.Text, sess.Engine, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to save session")
	}
	return err
}

// Load returns the stored session. ok is false when none has been saved.
func (s *Store) Load() (sess Session, ok bool) {
	if s == nil {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	err := s.db.QueryRow(
		"SELECT pattern, text, engine, updated FROM session WHERE id = 1",
	).Scan(&sess.Pattern, &sess.Text, &sess.Engine, &updated)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Msg("failed to load session")
		}
		return Session{}, false
	}
	sess.Updated = time.Unix(updated, 0)
	return sess, true
}
