package mysql

import (
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type moodRepository struct {
	db *sql.DB
}

func NewMoodRepository(db *sql.DB) *moodRepository {
	return &moodRepository{db: db}
}

func (r *moodRepository) Create(entry *model.MoodEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO moods (user_id, mood_score, market_condition, notes, created_at, updated_at)
              VALUES (?, ?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, entry.UserID, entry.MoodScore, entry.MarketCondition, entry.Notes)
	if err != nil {
		util.Logger.Error("创建心情记录失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = int(id)

	query = `INSERT INTO mood_emotions (mood_id, emotion) VALUES (?, ?)`
	for _, emotion := range entry.Emotions {
		if _, err = tx.Exec(query, id, emotion); err != nil {
			util.Logger.Error("插入情绪标签失败", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("心情记录创建成功", zap.Int("mood_id", entry.ID))
	return nil
}

func (r *moodRepository) ListByUser(userID, limit int) ([]*model.MoodEntry, error) {
	query := `
        SELECT id, user_id, mood_score, market_condition, notes, created_at, updated_at
        FROM moods
        WHERE user_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.MoodEntry
	for rows.Next() {
		var entry model.MoodEntry
		var notes sql.NullString
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.MoodScore,
			&entry.MarketCondition, &notes, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Notes = notes.String
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		emotions, err := r.getEmotions(entry.ID)
		if err != nil {
			return nil, err
		}
		entry.Emotions = emotions
	}

	return entries, nil
}

func (r *moodRepository) LatestByUser(userID int) (*model.MoodEntry, error) {
	entries, err := r.ListByUser(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

func (r *moodRepository) CountByUser(userID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moods WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

func (r *moodRepository) getEmotions(moodID int) ([]string, error) {
	rows, err := r.db.Query(`SELECT emotion FROM mood_emotions WHERE mood_id = ? ORDER BY id ASC`, moodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emotions := []string{}
	for rows.Next() {
		var emotion string
		if err := rows.Scan(&emotion); err != nil {
			return nil, err
		}
		emotions = append(emotions, emotion)
	}
	return emotions, rows.Err()
}
