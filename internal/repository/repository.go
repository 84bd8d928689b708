package repository

import "gorm.io/gorm"

// Repository 全 Repository の集約
type Repository struct {
	Request EstimationRequestRepository
	User    UserRepository
	Setting AppSettingRepository
}

// NewRepository Repository 集約を生成する
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Request: NewEstimationRequestRepo(db),
		User:    NewUserRepo(db),
		Setting: NewAppSettingRepo(db),
	}
}
