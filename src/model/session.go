// src/model/session.go
package model

import (
	"database/sql"
	"time"
)

// Session binds an issued access token to its refresh token so logout and
// refresh can be enforced server-side.
type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Token        string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func CreateSession(db *sql.DB, userID int64, token, refreshToken string, expiresAt time.Time) (*Session, error) {
	s := &Session{
		UserID:       userID,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
	}
	res, err := db.Exec(
		`INSERT INTO sessions (user_id, token, refresh_token, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.UserID, s.Token, s.RefreshToken, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func GetSessionByToken(db *sql.DB, token string) (*Session, error) {
	row := db.QueryRow(
		`SELECT id, user_id, token, refresh_token, expires_at, created_at FROM sessions WHERE token = ?`, token)
	var s Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func GetSessionByRefreshToken(db *sql.DB, refreshToken string) (*Session, error) {
	row := db.QueryRow(
		`SELECT id, user_id, token, refresh_token, expires_at, created_at FROM sessions WHERE refresh_token = ?`, refreshToken)
	var s Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteSessionByToken(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func DeleteSessionByID(db *sql.DB, id int64) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes sessions whose refresh window has passed.
func DeleteExpiredSessions(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	return err
}
