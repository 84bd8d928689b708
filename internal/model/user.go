package model

// User 担当者テーブル（users に対応）
// username は積算依頼の sales_person / estimation_person から表示名で参照される。
type User struct {
	UserID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"username"`
	Email    string `gorm:"type:varchar(255);not null"                     json:"email"`
	BaseModel
}

// TableName テーブル名を指定
func (User) TableName() string { return "users" }
