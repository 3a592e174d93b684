package interfaces

import "cryptomood-backend/internal/model"

// UserRepository 定义了用户相关的数据库操作接口
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
}
