package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"stash/config"
	"stash/dao"
	"stash/dao/cache"
	"stash/models"
	"stash/pkg/database"
	"stash/pkg/hashid"
	"stash/pkg/response"
	"stash/pkg/storage"
	"stash/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testConfig = `
app:
  hash_salt: test-salt
  admin_emails:
    - boss@stash.test
jwt:
  secret: test-secret
storage:
  driver: local
  public_base_url: http://localhost:8080
`

type stubSuggester struct {
	keywords []string
	calls    int
}

func (s *stubSuggester) SuggestKeywords(ctx context.Context, title, description string) []string {
	s.calls++
	return s.keywords
}

type testEnv struct {
	conf    *config.Config
	db      *gorm.DB
	redis   *miniredis.Miniredis
	storage *storage.Local
	llm     *stubSuggester

	reputation *ReputationService
	profiles   *ProfileService
	auth       *AuthService
	classes    *ClassService
	notes      *NoteService
	ratings    *RatingService
	comments   *CommentsService
	admin      *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conf, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	dir := t.TempDir()
	conf.Storage.LocalRoot = filepath.Join(dir, "files")

	db, err := database.Open(&config.Database{Driver: config.DriverSQLite, Name: filepath.Join(dir, "stash.db")}, false)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	local, err := storage.NewLocal(conf.Storage.LocalRoot, conf.Storage.PublicBaseURL, []byte(conf.Jwt.Secret))
	require.NoError(t, err)
	codec, err := hashid.New(conf.App.HashSalt)
	require.NoError(t, err)

	users := dao.NewUsers(db)
	profiles := dao.NewProfiles(db)
	reputationDAO := dao.NewReputation(db)
	classDAO := dao.NewClass(db)
	noteDAO := dao.NewNoteDAO(db)
	ratingDAO := dao.NewNoteRating(db)
	lock := cache.NewLock(rds)
	filterCache := cache.NewFilterOptionsStorage(rds)

	env := &testEnv{conf: conf, db: db, redis: mr, storage: local, llm: &stubSuggester{}}
	env.reputation = &ReputationService{
		DB:            db,
		ReputationDAO: reputationDAO,
		BadgeDAO:      dao.NewBadge(db),
		LogDAO:        dao.NewReputationLog(db),
		ProfileDAO:    profiles,
	}
	publisher := &DirectPublisher{Reputation: env.reputation}
	env.profiles = &ProfileService{Config: conf, UserDAO: users, ProfileDAO: profiles, Storage: local}
	env.auth = &AuthService{
		Config:        conf,
		DB:            db,
		UserDAO:       users,
		ProfileDAO:    profiles,
		ReputationDAO: reputationDAO,
		StateStorage:  cache.NewOAuthStateStorage(rds),
		DenyList:      cache.NewTokenDenyList(rds),
		OAuth:         NewOAuthProviders(conf.OAuth),
		Profiles:      env.profiles,
	}
	env.classes = &ClassService{
		Config:      conf,
		DB:          db,
		ClassDAO:    classDAO,
		FavoriteDAO: dao.NewClassFavorite(db),
		NoteDAO:     noteDAO,
		Storage:     local,
		FilterCache: filterCache,
		Publisher:   publisher,
	}
	env.notes = &NoteService{
		Config:      conf,
		DB:          db,
		NoteDAO:     noteDAO,
		ClassDAO:    classDAO,
		RatingDAO:   ratingDAO,
		UserDAO:     users,
		ProfileDAO:  profiles,
		Storage:     local,
		FilterCache: filterCache,
		Keywords:    env.llm,
		ShareCodec:  codec,
		Publisher:   publisher,
	}
	env.ratings = &RatingService{
		DB:        db,
		NoteDAO:   noteDAO,
		RatingDAO: ratingDAO,
		Profiles:  env.profiles,
		Lock:      lock,
		Publisher: publisher,
	}
	env.comments = &CommentsService{
		DB:             db,
		NoteDAO:        noteDAO,
		CommentDAO:     dao.NewComment(db),
		CommentLikeDAO: dao.NewCommentLike(db),
		LikeCache:      cache.NewCommentLikeStorage(rds),
		Lock:           lock,
		Profiles:       env.profiles,
		Publisher:      publisher,
	}
	env.admin = &AdminService{Profiles: env.profiles, ClassService: env.classes, NoteService: env.notes}
	return env
}

// signUp 注册并返回用户 id
func (e *testEnv) signUp(t *testing.T, email string) uint64 {
	t.Helper()
	resp, err := e.auth.SignUp(context.Background(), &types.SignUpRequest{Email: email, Password: "secret123"})
	require.NoError(t, err)
	return resp.User.ID
}

func (e *testEnv) createClass(t *testing.T, userID uint64) uint64 {
	t.Helper()
	class, err := e.classes.Create(context.Background(), userID, &types.CreateClassRequest{
		Name:      "Operating Systems",
		Semester:  "Fall",
		Year:      2024,
		Professor: "Tanenbaum",
	})
	require.NoError(t, err)
	return class.ID
}

func (e *testEnv) upload(t *testing.T, userID, classID uint64, filename string, content []byte) *types.NoteResponse {
	t.Helper()
	note, err := e.notes.Upload(context.Background(), userID, &types.UploadNoteRequest{
		Title:     "Lecture " + filename,
		ClassID:   classID,
		Professor: "Tanenbaum",
		Semester:  "Fall",
		School:    "VU",
		Keywords:  "kernel, scheduling",
	}, fileHeader(t, filename, "", content))
	require.NoError(t, err)
	return note
}

// fileHeader 构造 multipart 文件, contentType 为空时使用 application/octet-stream
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func (e *testEnv) points(t *testing.T, userID uint64) int64 {
	t.Helper()
	summary, err := e.reputation.GetSummary(context.Background(), userID)
	require.NoError(t, err)
	return summary.TotalPoints
}

func assertBizCode(t *testing.T, err error, code int) {
	t.Helper()
	var be *response.BizError
	if assert.ErrorAs(t, err, &be) {
		assert.Equal(t, code, be.Code, be.Msg)
	}
}

func uintStr(v uint64) string {
	return strconv.FormatUint(v, 10)
}
