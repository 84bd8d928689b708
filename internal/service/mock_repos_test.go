package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"sales-estimation/backend/internal/model"
	"sales-estimation/backend/internal/notify"
	"sales-estimation/backend/internal/repository"
)

// ── Mock EstimationRequestRepository ──

type mockRequestRepo struct {
	requests map[string]*model.EstimationRequest
	seq      int
	failNext error // 次の操作で返すエラー（1 回で解除）
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]*model.EstimationRequest)}
}

func (m *mockRequestRepo) takeErr() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockRequestRepo) Create(_ context.Context, req *model.EstimationRequest) error {
	if err := m.takeErr(); err != nil {
		return err
	}
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("req-%03d", m.seq)
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id string) (*model.EstimationRequest, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	if r, ok := m.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) Update(_ context.Context, req *model.EstimationRequest) error {
	if err := m.takeErr(); err != nil {
		return err
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockRequestRepo) Delete(_ context.Context, id string) error {
	if err := m.takeErr(); err != nil {
		return err
	}
	if _, ok := m.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.requests, id)
	return nil
}

func (m *mockRequestRepo) List(_ context.Context, filter repository.RequestFilter, offset, limit int) ([]model.EstimationRequest, int64, error) {
	if err := m.takeErr(); err != nil {
		return nil, 0, err
	}
	var matched []model.EstimationRequest
	for _, r := range m.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Query != "" && !matchesQuery(r, filter.Query) {
			continue
		}
		matched = append(matched, *r)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func matchesQuery(r *model.EstimationRequest, q string) bool {
	q = strings.ToLower(q)
	candidates := []string{r.ProjectName}
	if r.ZacProjectNumber != nil {
		candidates = append(candidates, *r.ZacProjectNumber)
	}
	if r.SalesPerson != nil {
		candidates = append(candidates, *r.SalesPerson)
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

func (m *mockRequestRepo) ListOpenWithDeadline(_ context.Context) ([]model.EstimationRequest, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	var result []model.EstimationRequest
	for _, r := range m.requests {
		if r.Status == model.StatusCompleted || r.Status == model.StatusCancelled {
			continue
		}
		if r.DesiredEstimationDate == nil {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock AppSettingRepository ──

type mockSettingRepo struct {
	settings map[string]*model.AppSetting
	seq      int
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{settings: make(map[string]*model.AppSetting)}
}

func (m *mockSettingRepo) GetByKey(_ context.Context, key string) (*model.AppSetting, error) {
	if s, ok := m.settings[key]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) Set(_ context.Context, key, value string) error {
	if s, ok := m.settings[key]; ok {
		s.SettingValue = value
		return nil
	}
	m.seq++
	m.settings[key] = &model.AppSetting{
		SettingID:    fmt.Sprintf("setting-%03d", m.seq),
		SettingKey:   key,
		SettingValue: value,
	}
	return nil
}

// ── Mock notify.Sender ──

// mockSender 送信したメッセージを記録する。fail が true なら常に失敗する。
type mockSender struct {
	sent []notify.Message
	fail bool
}

func (m *mockSender) Send(_ context.Context, msg notify.Message) error {
	if m.fail {
		return errors.New("送信失敗（テスト用）")
	}
	m.sent = append(m.sent, msg)
	return nil
}

// ── 共通セットアップ ──

func newTestRepository() (*repository.Repository, *mockRequestRepo, *mockUserRepo, *mockSettingRepo) {
	requestRepo := newMockRequestRepo()
	userRepo := newMockUserRepo()
	settingRepo := newMockSettingRepo()
	repo := &repository.Repository{
		Request: requestRepo,
		User:    userRepo,
		Setting: settingRepo,
	}
	return repo, requestRepo, userRepo, settingRepo
}
