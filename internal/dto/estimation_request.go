package dto

// ── 積算依頼モジュール DTO ──

// EstimationRequestForm 積算依頼の登録・更新フォーム
// 日付は "2006-01-02" 形式。空文字の任意項目は NULL として保存される。
type EstimationRequestForm struct {
	RequestDate           string `json:"request_date"            binding:"required"`
	DesiredEstimationDate string `json:"desired_estimation_date" binding:"omitempty"`
	ProjectName           string `json:"project_name"            binding:"required,max=255"`
	ZacProjectNumber      string `json:"zac_project_number"      binding:"omitempty,max=100"`
	SalesPerson           string `json:"sales_person"            binding:"omitempty,max=100"`
	EstimationPerson      string `json:"estimation_person"       binding:"omitempty,max=100"`
	Status                string `json:"status"                  binding:"required"`
	Estimation            string `json:"estimation"`
	CompletionDate        string `json:"completion_date"         binding:"omitempty"`
	Remarks               string `json:"remarks"`
	EstimationMaterials   string `json:"estimation_materials"`
	BoxURL                string `json:"box_url"                 binding:"omitempty,max=500"`
	Others                string `json:"others"`
}

// ListRequestsRequest 積算依頼一覧の検索条件
type ListRequestsRequest struct {
	PaginationRequest
	Query  string `form:"q"      binding:"omitempty,max=255"`
	Status string `form:"status" binding:"omitempty"`
}

// EstimationRequestResponse 積算依頼レスポンス
type EstimationRequestResponse struct {
	ID                    string `json:"id"`
	RequestDate           string `json:"request_date"`
	DesiredEstimationDate string `json:"desired_estimation_date,omitempty"`
	ProjectName           string `json:"project_name"`
	ZacProjectNumber      string `json:"zac_project_number,omitempty"`
	SalesPerson           string `json:"sales_person,omitempty"`
	EstimationPerson      string `json:"estimation_person,omitempty"`
	Status                string `json:"status"`
	StatusLabel           string `json:"status_label"`
	Estimation            string `json:"estimation,omitempty"`
	CompletionDate        string `json:"completion_date,omitempty"`
	Remarks               string `json:"remarks,omitempty"`
	EstimationMaterials   string `json:"estimation_materials,omitempty"`
	BoxURL                string `json:"box_url,omitempty"`
	Others                string `json:"others,omitempty"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

// StatusOptionResponse ステータス選択肢（値と表示ラベル）
type StatusOptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
