package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toonranks/internal/auth"
	"toonranks/internal/model"
	"toonranks/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*service.SignupResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignupResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) GoogleSignIn(ctx context.Context, idToken string) (*service.Session, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) SignInIdentity(ctx context.Context, id *auth.GoogleIdentity) (*service.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResendVerification(ctx context.Context, in service.ResendInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockSeriesService struct {
	mock.Mock
}

func (m *MockSeriesService) Create(ctx context.Context, in service.CreateSeriesInput) (*model.Series, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Series), args.Error(1)
}

func (m *MockSeriesService) List(ctx context.Context) ([]model.Series, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Series), args.Error(1)
}

func (m *MockSeriesService) Update(ctx context.Context, id int64, p service.SeriesPatch) (*model.Series, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Series), args.Error(1)
}

func (m *MockSeriesService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSeriesService) Rankings(ctx context.Context, page, pageSize int, seriesType string) ([]model.RankedSeries, error) {
	args := m.Called(ctx, page, pageSize, seriesType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RankedSeries), args.Error(1)
}

func (m *MockSeriesService) Summary(ctx context.Context, id int64) (*model.RankedSeries, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RankedSeries), args.Error(1)
}

func (m *MockSeriesService) Search(ctx context.Context, query string) ([]model.RankedSeries, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RankedSeries), args.Error(1)
}

type MockSeriesDetailService struct {
	mock.Mock
}

func (m *MockSeriesDetailService) Upsert(ctx context.Context, seriesID int64, synopsis string, cover *service.Upload) (*model.SeriesDetail, error) {
	args := m.Called(ctx, seriesID, synopsis, cover)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeriesDetail), args.Error(1)
}

func (m *MockSeriesDetailService) Vote(ctx context.Context, userID, seriesID int64, category string, score int) (*model.SeriesDetail, error) {
	args := m.Called(ctx, userID, seriesID, category, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeriesDetail), args.Error(1)
}

func (m *MockSeriesDetailService) Get(ctx context.Context, seriesID int64, viewer *model.User) (*model.SeriesDetailView, error) {
	args := m.Called(ctx, seriesID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeriesDetailView), args.Error(1)
}

type MockReadingListService struct {
	mock.Mock
}

func (m *MockReadingListService) Mine(ctx context.Context, userID int64) ([]model.ReadingList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReadingList), args.Error(1)
}

func (m *MockReadingListService) Create(ctx context.Context, userID int64, name string) (*model.ReadingList, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingList), args.Error(1)
}

func (m *MockReadingListService) AddSeries(ctx context.Context, userID, listID, seriesID int64) (*model.ReadingList, error) {
	args := m.Called(ctx, userID, listID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingList), args.Error(1)
}

func (m *MockReadingListService) RemoveSeries(ctx context.Context, userID, listID, seriesID int64) (*model.ReadingList, error) {
	args := m.Called(ctx, userID, listID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingList), args.Error(1)
}

func (m *MockReadingListService) Delete(ctx context.Context, userID, listID int64) error {
	args := m.Called(ctx, userID, listID)
	return args.Error(0)
}

type MockIssueService struct {
	mock.Mock
}

func (m *MockIssueService) Report(ctx context.Context, in service.ReportIssueInput) (*model.Issue, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueService) List(ctx context.Context, q service.IssueQuery) ([]model.Issue, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Issue), args.Error(1)
}

func (m *MockIssueService) UpdateStatus(ctx context.Context, id int64, status string, adminNotes *string) (*model.Issue, error) {
	args := m.Called(ctx, id, status, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockForumService struct {
	mock.Mock
}

func (m *MockForumService) ListThreads(ctx context.Context, q string, page, pageSize int) ([]model.ForumThread, error) {
	args := m.Called(ctx, q, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ForumThread), args.Error(1)
}

func (m *MockForumService) CreateThread(ctx context.Context, user *model.User, in service.CreateThreadInput) (*model.ForumThread, error) {
	args := m.Called(ctx, user, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumService) GetThread(ctx context.Context, threadID int64) (*service.ThreadView, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ThreadView), args.Error(1)
}

func (m *MockForumService) CreatePost(ctx context.Context, user *model.User, threadID int64, in service.CreatePostInput) (*model.ForumPost, error) {
	args := m.Called(ctx, user, threadID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumPost), args.Error(1)
}

func (m *MockForumService) UpdatePost(ctx context.Context, user *model.User, threadID, postID int64, in service.UpdatePostInput) (*model.ForumPost, error) {
	args := m.Called(ctx, user, threadID, postID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumPost), args.Error(1)
}

func (m *MockForumService) UpdateThread(ctx context.Context, user *model.User, threadID int64, p service.ThreadPatch) (*model.ForumThread, error) {
	args := m.Called(ctx, user, threadID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumService) UpdateSettings(ctx context.Context, user *model.User, threadID int64, latestFirst *bool) (*model.ForumThread, error) {
	args := m.Called(ctx, user, threadID, latestFirst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumService) SetLocked(ctx context.Context, user *model.User, threadID int64, locked bool) (*model.ForumThread, error) {
	args := m.Called(ctx, user, threadID, locked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumThread), args.Error(1)
}

func (m *MockForumService) DeletePost(ctx context.Context, user *model.User, threadID, postID int64) error {
	args := m.Called(ctx, user, threadID, postID)
	return args.Error(0)
}

func (m *MockForumService) DeleteThread(ctx context.Context, user *model.User, threadID int64) error {
	args := m.Called(ctx, user, threadID)
	return args.Error(0)
}

func (m *MockForumService) SearchSeries(ctx context.Context, q string, limit int) ([]model.SeriesRef, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeriesRef), args.Error(1)
}

type MockForumMediaService struct {
	mock.Mock
}

func (m *MockForumMediaService) Upload(ctx context.Context, user *model.User, threadID int64, postID *int64, file *service.Upload) (*model.ForumMedia, error) {
	args := m.Called(ctx, user, threadID, postID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumMedia), args.Error(1)
}

type MockSitemapService struct {
	mock.Mock
}

func (m *MockSitemapService) Index(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSitemapService) ForumPage(ctx context.Context, page int) ([]byte, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSitemapService) Static(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
