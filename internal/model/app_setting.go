package model

// SettingKeyLoginPassword 共有ログインパスワードを保持する設定キー
const SettingKeyLoginPassword = "login_password"

// AppSetting アプリ設定テーブル（app_settings に対応、キー・バリュー形式）
// login_password の行には共有パスワードの bcrypt ハッシュを保持する。
type AppSetting struct {
	SettingID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"setting_id"`
	SettingKey   string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"setting_key"`
	SettingValue string `gorm:"type:text;not null"                             json:"setting_value"`
	BaseModel
}

// TableName テーブル名を指定
func (AppSetting) TableName() string { return "app_settings" }
