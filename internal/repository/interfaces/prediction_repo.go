package interfaces

import (
	"cryptomood-backend/internal/model"
	"time"
)

// PredictionRepository 定义了预测记录的数据库操作接口
type PredictionRepository interface {
	Create(prediction *model.Prediction) error
	ListByUser(userID, limit int) ([]*model.Prediction, error)
	FindByIDAndUser(id, userID int) (*model.Prediction, error)
	DeleteByIDAndUser(id, userID int) (bool, error)
	// Resolve 只会命中 pending 状态的记录，返回是否有行被更新
	Resolve(id, userID int, actualPrice float64, status string, resolvedAt time.Time) (bool, error)
	ListResolvedByUser(userID int) ([]*model.Prediction, error)
	CountByUser(userID int) (int, error)
}
