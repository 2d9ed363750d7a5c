// src/model/analysis_store.go
package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/username/biaslens/src/models"
)

// ReplaceFindings swaps the user's stored findings for the latest run's set.
// Findings are not updated incrementally; each analysis run replaces them.
func ReplaceFindings(db *sql.DB, userID int64, findings []models.BiasFinding) error {
	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning findings transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM bias_findings WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("error clearing previous findings: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO bias_findings
		(user_id, kind, severity, title, description, evidence, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing findings insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, f := range findings {
		evidence, err := json.Marshal(f.Evidence)
		if err != nil {
			return fmt.Errorf("error encoding finding evidence: %w", err)
		}
		if _, err := stmt.Exec(userID, f.Kind, f.Severity, f.Title, f.Description, string(evidence), f.Score, now); err != nil {
			return fmt.Errorf("error inserting finding: %w", err)
		}
	}
	return dbTx.Commit()
}

// ListFindings returns the user's stored findings sorted descending by score.
func ListFindings(db *sql.DB, userID int64) ([]models.BiasFinding, error) {
	rows, err := db.Query(`SELECT kind, severity, title, description, evidence, score
		FROM bias_findings WHERE user_id = ? ORDER BY score DESC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var findings []models.BiasFinding
	for rows.Next() {
		var f models.BiasFinding
		var evidence string
		if err := rows.Scan(&f.Kind, &f.Severity, &f.Title, &f.Description, &evidence, &f.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(evidence), &f.Evidence); err != nil {
			return nil, fmt.Errorf("error decoding finding evidence: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// SaveRiskProfile appends a risk profile snapshot; history is kept so the
// frontend can chart the trend across uploads.
func SaveRiskProfile(db *sql.DB, userID int64, profile models.RiskProfile) error {
	_, err := db.Exec(`INSERT INTO risk_profiles
		(user_id, overall_score, overtrading_score, loss_aversion_score, revenge_trading_score, discipline_score, emotional_control_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, profile.OverallScore, profile.OvertradingScore, profile.LossAversionScore,
		profile.RevengeTradingScore, profile.DisciplineScore, profile.EmotionalControlScore, time.Now())
	return err
}

// GetLatestRiskProfile returns the most recent snapshot, or sql.ErrNoRows.
func GetLatestRiskProfile(db *sql.DB, userID int64) (*models.RiskProfile, error) {
	row := db.QueryRow(`SELECT overall_score, overtrading_score, loss_aversion_score, revenge_trading_score, discipline_score, emotional_control_score
		FROM risk_profiles WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
	var p models.RiskProfile
	err := row.Scan(&p.OverallScore, &p.OvertradingScore, &p.LossAversionScore,
		&p.RevengeTradingScore, &p.DisciplineScore, &p.EmotionalControlScore)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func DeleteFindings(db *sql.DB, userID int64) error {
	_, err := db.Exec(`DELETE FROM bias_findings WHERE user_id = ?`, userID)
	return err
}

// DeleteRiskProfiles wipes the user's snapshot history. Only used when the
// underlying trade history is deleted; a rerun appends, never deletes.
func DeleteRiskProfiles(db *sql.DB, userID int64) error {
	_, err := db.Exec(`DELETE FROM risk_profiles WHERE user_id = ?`, userID)
	return err
}
