package mysql

import (
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

type predictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *predictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(prediction *model.Prediction) error {
	query := `INSERT INTO predictions
              (user_id, symbol, direction, confidence, target_price, timeframe, reasoning, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', NOW(), NOW())`

	result, err := r.db.Exec(query,
		prediction.UserID, prediction.Symbol, prediction.Direction,
		prediction.Confidence, prediction.TargetPrice, prediction.Timeframe,
		prediction.Reasoning)
	if err != nil {
		util.Logger.Error("创建预测失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	prediction.ID = int(id)
	prediction.Status = model.PredictionPending

	util.Logger.Info("预测创建成功", zap.Int("prediction_id", prediction.ID))
	return nil
}

const predictionColumns = `id, user_id, symbol, direction, confidence, target_price,
       timeframe, reasoning, status, actual_price, resolved_at, created_at, updated_at`

func (r *predictionRepository) scanPrediction(row interface {
	Scan(dest ...interface{}) error
}) (*model.Prediction, error) {
	var p model.Prediction
	var targetPrice, actualPrice sql.NullFloat64
	var resolvedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.Symbol, &p.Direction, &p.Confidence,
		&targetPrice, &p.Timeframe, &p.Reasoning, &p.Status,
		&actualPrice, &resolvedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if targetPrice.Valid {
		p.TargetPrice = &targetPrice.Float64
	}
	if actualPrice.Valid {
		p.ActualPrice = &actualPrice.Float64
	}
	if resolvedAt.Valid {
		p.ResolvedAt = &resolvedAt.Time
	}
	return &p, nil
}

func (r *predictionRepository) ListByUser(userID, limit int) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
              FROM predictions
              WHERE user_id = ?
              ORDER BY created_at DESC, id DESC
              LIMIT ?`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []*model.Prediction
	for rows.Next() {
		p, err := r.scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *predictionRepository) FindByIDAndUser(id, userID int) (*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
              FROM predictions
              WHERE id = ? AND user_id = ?`

	p, err := r.scanPrediction(r.db.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *predictionRepository) DeleteByIDAndUser(id, userID int) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM predictions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		util.Logger.Error("删除预测失败", zap.Error(err), zap.Int("prediction_id", id))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Resolve 结算一条 pending 状态的预测，返回是否有行被更新
func (r *predictionRepository) Resolve(id, userID int, actualPrice float64, status string, resolvedAt time.Time) (bool, error) {
	query := `UPDATE predictions
              SET actual_price = ?, status = ?, resolved_at = ?, updated_at = NOW()
              WHERE id = ? AND user_id = ? AND status = 'pending'`

	result, err := r.db.Exec(query, actualPrice, status, resolvedAt, id, userID)
	if err != nil {
		util.Logger.Error("结算预测失败", zap.Error(err), zap.Int("prediction_id", id))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *predictionRepository) ListResolvedByUser(userID int) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + `
              FROM predictions
              WHERE user_id = ? AND status <> 'pending'
              ORDER BY resolved_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []*model.Prediction
	for rows.Next() {
		p, err := r.scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *predictionRepository) CountByUser(userID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM predictions WHERE user_id = ?", userID).Scan(&count)
	return count, err
}
