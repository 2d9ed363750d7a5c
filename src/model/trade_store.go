// src/model/trade_store.go
package model

import (
	"database/sql"
	"fmt"

	"github.com/username/biaslens/src/models"
)

// InsertTrades bulk-inserts canonical trades for a user inside one database
// transaction. Optional fields are stored as NULLs, never coerced to zero.
func InsertTrades(db *sql.DB, userID int64, trades []models.Trade) (int, error) {
	if len(trades) == 0 {
		return 0, nil
	}
	dbTx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning trade insert transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO trades
		(user_id, timestamp, action, asset, quantity, entry_price, exit_price, pnl, account_balance, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("error preparing trade insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range trades {
		_, err := stmt.Exec(
			userID, t.Timestamp, t.Action, t.Asset, t.Quantity, t.EntryPrice,
			nullableFloat(t.ExitPrice), nullableFloat(t.PnL), nullableFloat(t.AccountBalance), t.Notes)
		if err != nil {
			return 0, fmt.Errorf("error inserting trade: %w", err)
		}
		inserted++
	}
	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing trade insert transaction: %w", err)
	}
	return inserted, nil
}

// ListTrades returns the user's trades ordered by timestamp. order must be
// "asc" or "desc"; limit <= 0 means no limit.
func ListTrades(db *sql.DB, userID int64, limit int, order string) ([]models.Trade, error) {
	direction := "ASC"
	if order == "desc" {
		direction = "DESC"
	}
	query := `SELECT id, timestamp, action, asset, quantity, entry_price, exit_price, pnl, account_balance, notes
		FROM trades WHERE user_id = ? ORDER BY timestamp ` + direction + `, id ` + direction
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var exitPrice, pnl, balance sql.NullFloat64
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Action, &t.Asset, &t.Quantity, &t.EntryPrice,
			&exitPrice, &pnl, &balance, &notes); err != nil {
			return nil, err
		}
		if exitPrice.Valid {
			v := exitPrice.Float64
			t.ExitPrice = &v
		}
		if pnl.Valid {
			v := pnl.Float64
			t.PnL = &v
		}
		if balance.Valid {
			v := balance.Float64
			t.AccountBalance = &v
		}
		t.Notes = notes.String
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func CountTrades(db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM trades WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

func DeleteAllTrades(db *sql.DB, userID int64) (int64, error) {
	res, err := db.Exec(`DELETE FROM trades WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
