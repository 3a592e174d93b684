package interfaces

import "cryptomood-backend/internal/model"

// MoodRepository 定义了心情日记的数据库操作接口
type MoodRepository interface {
	Create(entry *model.MoodEntry) error
	ListByUser(userID, limit int) ([]*model.MoodEntry, error)
	LatestByUser(userID int) (*model.MoodEntry, error)
	CountByUser(userID int) (int, error)
}
