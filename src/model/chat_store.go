// src/model/chat_store.go
package model

import (
	"database/sql"
	"time"
)

// ChatMessage is one turn of the AI-coach conversation.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func InsertChatMessage(db *sql.DB, userID int64, role, content string) (*ChatMessage, error) {
	m := &ChatMessage{
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	res, err := db.Exec(
		`INSERT INTO chat_messages (user_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		m.UserID, m.Role, m.Content, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListChatMessages returns the most recent messages in chronological order.
func ListChatMessages(db *sql.DB, userID int64, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`SELECT id, user_id, role, content, created_at FROM (
			SELECT id, user_id, role, content, created_at FROM chat_messages
			WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?
		) ORDER BY created_at ASC, id ASC`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func DeleteChatMessages(db *sql.DB, userID int64) error {
	_, err := db.Exec(`DELETE FROM chat_messages WHERE user_id = ?`, userID)
	return err
}
