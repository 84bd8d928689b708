package model

import "time"

// EstimationRequest 積算依頼テーブル（estimation_requests に対応）
// sales_person / estimation_person は users.username と文字列で緩く紐づく
// （外部キーではない）。通知時に参照解決し、見つからなければ警告扱いにする。
type EstimationRequest struct {
	RequestID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	RequestDate           time.Time  `gorm:"type:date;not null" json:"request_date"`
	DesiredEstimationDate *time.Time `gorm:"type:date" json:"desired_estimation_date,omitempty"`
	ProjectName           string     `gorm:"type:varchar(255);not null" json:"project_name"`
	ZacProjectNumber      *string    `gorm:"type:varchar(100)" json:"zac_project_number,omitempty"`
	SalesPerson           *string    `gorm:"type:varchar(100)" json:"sales_person,omitempty"`
	EstimationPerson      *string    `gorm:"type:varchar(100)" json:"estimation_person,omitempty"`
	Status                Status     `gorm:"type:varchar(50);not null;default:'not-started'" json:"status"`
	Estimation            *string    `gorm:"type:text" json:"estimation,omitempty"`
	CompletionDate        *time.Time `gorm:"type:date" json:"completion_date,omitempty"`
	Remarks               *string    `gorm:"type:text" json:"remarks,omitempty"`
	EstimationMaterials   *string    `gorm:"type:text" json:"estimation_materials,omitempty"`
	BoxURL                *string    `gorm:"type:varchar(500)" json:"box_url,omitempty"`
	Others                *string    `gorm:"type:text" json:"others,omitempty"`
	BaseModel
}

// TableName テーブル名を指定
func (EstimationRequest) TableName() string { return "estimation_requests" }

// SalesPersonName 営業担当名（未設定なら空文字）
func (r *EstimationRequest) SalesPersonName() string {
	if r.SalesPerson == nil {
		return ""
	}
	return *r.SalesPerson
}

// EstimationPersonName 積算担当名（未設定なら空文字）
func (r *EstimationRequest) EstimationPersonName() string {
	if r.EstimationPerson == nil {
		return ""
	}
	return *r.EstimationPerson
}
