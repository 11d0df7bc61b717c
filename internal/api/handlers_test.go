package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yatube/backend/internal/cache"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/storage"
	"github.com/yatube/backend/internal/testhelpers"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
	clock  *fakeClock
	pages  cache.Cache
	media  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	clk := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	pages := cache.NewMemoryCache(clk.Now)
	auth := service.NewAuthService(db, "handler-test-secret", time.Hour)
	media := t.TempDir()

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Authenticate(auth))
	r.NoRoute(middleware.NotFound())
	RegisterRoutes(r, Dependencies{
		Auth:          auth,
		Profiles:      service.NewProfileService(db),
		Groups:        service.NewGroupService(db),
		Posts:         service.NewPostService(db),
		Follows:       service.NewFollowService(db),
		Likes:         service.NewLikeService(db),
		Feeds:         service.NewFeedService(db, 10),
		Images:        service.NewImageService(storage.NewLocalStore(media, "/media/")),
		PageCache:     pages,
		IndexCacheTTL: 20 * time.Second,
		PageSize:      10,
		TokenTTL:      time.Hour,
	})

	return &testApp{t: t, db: db, router: r, auth: auth, clock: clk, pages: pages, media: media}
}

type requestOption func(*http.Request)

func as(t *testing.T, app *testApp, user *models.User) requestOption {
	token, err := app.auth.GenerateToken(user)
	require.NoError(t, err)
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
}

func referer(u string) requestOption {
	return func(r *http.Request) { r.Header.Set("Referer", u) }
}

func (a *testApp) get(path string, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(path string, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// postFile sends a multipart form with one PNG attached under fileField.
func (a *testApp) postFile(path string, fields url.Values, fileField string, opts ...requestOption) *httptest.ResponseRecorder {
	a.t.Helper()
	var img bytes.Buffer
	require.NoError(a.t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(a.t, mw.WriteField(k, v))
		}
	}
	fw, err := mw.CreateFormFile(fileField, "small.png")
	require.NoError(a.t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// mediaFiles lists every file written to the media root, relative to it.
func (a *testApp) mediaFiles() []string {
	a.t.Helper()
	var files []string
	err := filepath.WalkDir(a.media, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(a.media, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(a.t, err)
	return files
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestIndexPagination(t *testing.T) {
	app := newTestApp(t)
	author := testhelpers.CreateUser(t, app.db, "leo")
	testhelpers.CreatePosts(t, app.db, author, nil, 13)

	first := decode[FeedResponse](t, app.get("/"))
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, "Post number 13", first.Posts[0].Text)
	assert.True(t, first.Page.HasNext)
	assert.Equal(t, 2, first.Page.NumPages)

	second := decode[FeedResponse](t, app.get("/?page=2"))
	assert.Len(t, second.Posts, 3)
	assert.Equal(t, "Post number 1", second.Posts[2].Text)

	clamped := decode[FeedResponse](t, app.get("/?page=99"))
	assert.Equal(t, 2, clamped.Page.Number)
	assert.Len(t, clamped.Posts, 3)
}

func TestIndexIsCached(t *testing.T) {
	app := newTestApp(t)
	author := testhelpers.CreateUser(t, app.db, "leo")
	testhelpers.CreatePost(t, app.db, author, nil, "first")

	before := app.get("/")
	require.Equal(t, http.StatusOK, before.Code)

	testhelpers.CreatePost(t, app.db, author, nil, "second")

	app.clock.now = app.clock.now.Add(10 * time.Second)
	cached := app.get("/")
	assert.Equal(t, "HIT", cached.Header().Get(middleware.CacheStatusHeader))
	assert.Equal(t, before.Body.Bytes(), cached.Body.Bytes())

	app.clock.now = app.clock.now.Add(10 * time.Second)
	fresh := app.get("/")
	assert.NotEqual(t, before.Body.String(), fresh.Body.String())
	assert.Len(t, decode[FeedResponse](t, fresh).Posts, 2)
}

func TestIndexCacheSurvivesDeletion(t *testing.T) {
	app := newTestApp(t)
	author := testhelpers.CreateUser(t, app.db, "leo")
	admin := testhelpers.CreateUser(t, app.db, "boss")
	require.NoError(t, app.db.Model(admin).Update("is_staff", true).Error)
	admin.IsStaff = true
	post := testhelpers.CreatePost(t, app.db, author, nil, "soon gone")

	before := app.get("/")
	require.Contains(t, before.Body.String(), "soon gone")

	w := app.post(fmt.Sprintf("/posts/%d/delete/", post.ID), nil, as(t, app, author))
	require.Equal(t, "/profile/leo/", w.Header().Get("Location"))

	cached := app.get("/")
	assert.Equal(t, before.Body.Bytes(), cached.Body.Bytes())

	require.Equal(t, http.StatusOK, app.post("/admin/cache/clear/", nil, as(t, app, admin)).Code)
	after := app.get("/")
	assert.NotEqual(t, before.Body.String(), after.Body.String())
	assert.NotContains(t, after.Body.String(), "soon gone")
}

func TestAdminClearsCache(t *testing.T) {
	app := newTestApp(t)
	author := testhelpers.CreateUser(t, app.db, "leo")
	admin := testhelpers.CreateUser(t, app.db, "boss")
	require.NoError(t, app.db.Model(admin).Update("is_staff", true).Error)
	admin.IsStaff = true

	before := app.get("/")
	testhelpers.CreatePost(t, app.db, author, nil, "after cache")
	assert.Equal(t, before.Body.String(), app.get("/").Body.String())

	assert.Equal(t, http.StatusForbidden, app.post("/admin/cache/clear/", nil, as(t, app, author)).Code)
	assert.Equal(t, http.StatusOK, app.post("/admin/cache/clear/", nil, as(t, app, admin)).Code)

	after := app.get("/")
	assert.NotEqual(t, before.Body.String(), after.Body.String())
	assert.Contains(t, after.Body.String(), "after cache")
}

func TestIndexDoesNotDependOnViewer(t *testing.T) {
	app := newTestApp(t)
	author := testhelpers.CreateUser(t, app.db, "leo")
	testhelpers.CreatePost(t, app.db, author, nil, "hello")

	anon := app.get("/")
	app.clock.now = app.clock.now.Add(time.Minute)
	signedIn := app.get("/", as(t, app, author))
	assert.Equal(t, "MISS", signedIn.Header().Get(middleware.CacheStatusHeader))
	assert.Equal(t, anon.Body.String(), signedIn.Body.String())
}

func TestLoginRequiredRedirect(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/create/", "/follow/", "/account/", "/profile/leo/follow/", "/like/1/"} {
		w := app.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, middleware.LoginRedirectURL(path), w.Header().Get("Location"), path)
	}
}

func TestLoginFollowsNext(t *testing.T) {
	app := newTestApp(t)
	testhelpers.CreateUser(t, app.db, "leo")

	w := app.post("/auth/login/?next=%2Fcreate%2F", url.Values{
		"username": {"leo"},
		"password": {testhelpers.TestPassword},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create/", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadCredentialsAndForeignNext(t *testing.T) {
	app := newTestApp(t)
	testhelpers.CreateUser(t, app.db, "leo")

	w := app.post("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ValidationErrorResponse](t, w).Errors, "__all__")

	for _, next := range []string{
		"//evil.example.com/",
		"/\\evil.example.com/",
		"/\t/evil.example.com",
		"/\r\n/evil.example.com",
		"https://evil.example.com/",
		"evil.example.com",
	} {
		w = app.post("/auth/login/?next="+url.QueryEscape(next), url.Values{
			"username": {"leo"},
			"password": {testhelpers.TestPassword},
		})
		assert.Equal(t, http.StatusFound, w.Code, next)
		assert.Equal(t, "/", w.Header().Get("Location"), next)
	}
}

func TestSignupCreatesProfileAndSession(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/auth/signup/", url.Values{
		"username": {"newbie"},
		"email":    {"newbie@example.com"},
		"password": {"long-enough-password"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, app.db.Preload("Profile").Where("username = ?", "newbie").First(&user).Error)
	assert.NotNil(t, user.Profile)

	dup := app.post("/auth/signup/", url.Values{"username": {"newbie"}, "password": {"long-enough-password"}})
	assert.Equal(t, http.StatusBadRequest, dup.Code)
	assert.Contains(t, decode[ValidationErrorResponse](t, dup).Errors, "username")
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")
	group := testhelpers.CreateGroup(t, app.db, "cats")

	w := app.post("/create/", url.Values{"text": {"new post"}, "group": {fmt.Sprint(group.ID)}}, as(t, app, leo))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, app.db.First(&post, "text = ?", "new post").Error)
	assert.Equal(t, leo.ID, post.AuthorID)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)

	blank := app.post("/create/", url.Values{"text": {"   "}}, as(t, app, leo))
	assert.Equal(t, http.StatusBadRequest, blank.Code)
	assert.Contains(t, decode[ValidationErrorResponse](t, blank).Errors, "text")
}

func TestCreatePostWithImage(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")

	w := app.postFile("/create/", url.Values{"text": {"with picture"}}, "image", as(t, app, leo))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	var post models.Post
	require.NoError(t, app.db.First(&post, "text = ?", "with picture").Error)
	assert.True(t, strings.HasPrefix(post.Image, "/media/posts/"), post.Image)
	assert.Equal(t, []string{strings.TrimPrefix(post.Image, "/media/")}, app.mediaFiles())
}

func TestRejectedPostKeepsNoImage(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")

	w := app.postFile("/create/", url.Values{"text": {"bad group"}, "group": {"999"}}, "image", as(t, app, leo))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[ValidationErrorResponse](t, w).Errors, "group")

	var count int64
	require.NoError(t, app.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, app.mediaFiles())
}

func TestImageLifecycleOnEditAndDelete(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")

	w := app.postFile("/create/", url.Values{"text": {"v1"}}, "image", as(t, app, leo))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	var post models.Post
	require.NoError(t, app.db.First(&post, "text = ?", "v1").Error)
	first := post.Image
	detail := fmt.Sprintf("/posts/%d/", post.ID)

	// A rejected edit leaves the old image in place and stores nothing new.
	w = app.postFile(detail+"edit/", url.Values{"text": {"v2"}, "group": {"999"}}, "image", as(t, app, leo))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{strings.TrimPrefix(first, "/media/")}, app.mediaFiles())

	w = app.postFile(detail+"edit/", url.Values{"text": {"v2"}}, "image", as(t, app, leo))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	require.NoError(t, app.db.First(&post, post.ID).Error)
	require.NotEqual(t, first, post.Image)
	assert.Equal(t, []string{strings.TrimPrefix(post.Image, "/media/")}, app.mediaFiles())

	w = app.post(detail+"delete/", nil, as(t, app, leo))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, app.mediaFiles())
}

func TestNonOwnerCannotEdit(t *testing.T) {
	app := newTestApp(t)
	owner := testhelpers.CreateUser(t, app.db, "owner")
	stranger := testhelpers.CreateUser(t, app.db, "stranger")
	post := testhelpers.CreatePost(t, app.db, owner, nil, "original")
	detail := fmt.Sprintf("/posts/%d/", post.ID)

	w := app.post(detail+"edit/", url.Values{"text": {"hacked"}}, as(t, app, stranger))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	w = app.get(detail+"edit/", as(t, app, stranger))
	assert.Equal(t, http.StatusFound, w.Code)

	w = app.post(detail+"delete/", nil, as(t, app, stranger))
	assert.Equal(t, detail, w.Header().Get("Location"))

	var stored models.Post
	require.NoError(t, app.db.First(&stored, post.ID).Error)
	assert.Equal(t, "original", stored.Text)
}

func TestOwnerEditsAndDeletes(t *testing.T) {
	app := newTestApp(t)
	owner := testhelpers.CreateUser(t, app.db, "owner")
	post := testhelpers.CreatePost(t, app.db, owner, nil, "original")
	detail := fmt.Sprintf("/posts/%d/", post.ID)

	form := decode[PostFormResponse](t, app.get(detail+"edit/", as(t, app, owner)))
	assert.True(t, form.IsEdit)
	require.NotNil(t, form.Post)
	assert.Equal(t, "original", form.Post.Text)

	w := app.post(detail+"edit/", url.Values{"text": {"edited"}}, as(t, app, owner))
	assert.Equal(t, detail, w.Header().Get("Location"))

	var stored models.Post
	require.NoError(t, app.db.First(&stored, post.ID).Error)
	assert.Equal(t, "edited", stored.Text)

	w = app.post(detail+"delete/", nil, as(t, app, owner))
	assert.Equal(t, "/profile/owner/", w.Header().Get("Location"))
	assert.ErrorIs(t, app.db.First(&stored, post.ID).Error, gorm.ErrRecordNotFound)
}

func TestEditUnknownPostRedirects(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")

	w := app.post("/posts/404/edit/", url.Values{"text": {"x"}}, as(t, app, leo))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/404/", w.Header().Get("Location"))
}

func TestPostDetail(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")
	reader := testhelpers.CreateUser(t, app.db, "reader")
	post := testhelpers.CreatePost(t, app.db, leo, nil, "look at this")
	testhelpers.CreatePost(t, app.db, leo, nil, "another one")
	detail := fmt.Sprintf("/posts/%d/", post.ID)

	w := app.post(detail+"comment/", url.Values{"text": {"nice"}}, as(t, app, reader))
	assert.Equal(t, detail, w.Header().Get("Location"))

	resp := decode[PostDetailResponse](t, app.get(detail, as(t, app, leo)))
	assert.Equal(t, int64(2), resp.AuthorPostCount)
	assert.True(t, resp.CanEdit)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "nice", resp.Comments[0].Text)
	assert.Equal(t, "r*****@example.com", resp.Comments[0].Author.Email)

	assert.False(t, decode[PostDetailResponse](t, app.get(detail, as(t, app, reader))).CanEdit)
	assert.Equal(t, http.StatusNotFound, app.get("/posts/999/").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/posts/abc/").Code)
	assert.Equal(t, http.StatusNotFound, app.post("/posts/999/comment/", url.Values{"text": {"x"}}, as(t, app, reader)).Code)
}

func TestGroupFeed(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")
	cats := testhelpers.CreateGroup(t, app.db, "cats")
	dogs := testhelpers.CreateGroup(t, app.db, "dogs")
	testhelpers.CreatePost(t, app.db, leo, cats, "meow")
	testhelpers.CreatePost(t, app.db, leo, nil, "no group")

	resp := decode[FeedResponse](t, app.get("/group/cats/"))
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "meow", resp.Posts[0].Text)
	require.NotNil(t, resp.Group)
	assert.Equal(t, "cats", resp.Group.Slug)

	assert.Empty(t, decode[FeedResponse](t, app.get("/group/"+dogs.Slug+"/")).Posts)
	assert.Equal(t, http.StatusNotFound, app.get("/group/birds/").Code)
}

func TestFollowFeed(t *testing.T) {
	app := newTestApp(t)
	author := testhelpers.CreateUser(t, app.db, "author")
	fan := testhelpers.CreateUser(t, app.db, "fan")
	other := testhelpers.CreateUser(t, app.db, "other")
	testhelpers.CreatePost(t, app.db, author, nil, "for fans")

	w := app.get("/profile/author/follow/", as(t, app, fan), referer("/profile/author/"))
	assert.Equal(t, "/profile/author/", w.Header().Get("Location"))
	app.get("/profile/author/follow/", as(t, app, fan))

	var follows int64
	require.NoError(t, app.db.Model(&models.Follow{}).Count(&follows).Error)
	assert.Equal(t, int64(1), follows)

	fanFeed := decode[FeedResponse](t, app.get("/follow/", as(t, app, fan)))
	require.Len(t, fanFeed.Posts, 1)
	assert.Equal(t, "for fans", fanFeed.Posts[0].Text)
	assert.Empty(t, decode[FeedResponse](t, app.get("/follow/", as(t, app, other))).Posts)

	profile := decode[ProfileResponse](t, app.get("/profile/author/", as(t, app, fan)))
	assert.True(t, profile.Following)
	assert.Equal(t, int64(1), profile.PostCount)
	assert.False(t, decode[ProfileResponse](t, app.get("/profile/author/")).Following)

	w = app.get("/profile/author/unfollow/", as(t, app, fan))
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, decode[FeedResponse](t, app.get("/follow/", as(t, app, fan))).Posts)

	assert.Equal(t, http.StatusNotFound, app.get("/profile/nobody/follow/", as(t, app, fan)).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/profile/nobody/").Code)
}

func TestLikeAndDislike(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")
	fan := testhelpers.CreateUser(t, app.db, "fan")
	post := testhelpers.CreatePost(t, app.db, leo, nil, "likeable")
	likePath := fmt.Sprintf("/like/%d/", post.ID)

	likes := func() int {
		var p models.Post
		require.NoError(t, app.db.First(&p, post.ID).Error)
		return p.Likes
	}

	w := app.get(likePath, as(t, app, fan))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 1, likes())
	app.get(likePath, as(t, app, fan))
	assert.Equal(t, 1, likes())

	detail := decode[PostDetailResponse](t, app.get(fmt.Sprintf("/posts/%d/", post.ID), as(t, app, fan)))
	assert.True(t, detail.Liked)
	assert.Equal(t, []string{"fan"}, detail.Post.LikedBy)

	app.get(fmt.Sprintf("/dislike/%d/", post.ID), as(t, app, fan))
	assert.Equal(t, 0, likes())
	assert.Equal(t, http.StatusNotFound, app.get("/like/999/", as(t, app, fan)).Code)
}

func TestAccountPages(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")
	fan := testhelpers.CreateUser(t, app.db, "fan")
	testhelpers.Follow(t, app.db, fan, leo)
	testhelpers.Follow(t, app.db, leo, fan)

	w := app.post("/account/edit/", url.Values{"first_name": {"Leo"}, "last_name": {"Tolstoy"}, "email": {"leo@example.org"}}, as(t, app, leo))
	assert.Equal(t, "/account/", w.Header().Get("Location"))

	w = app.post("/account/edit_profile/", url.Values{"bio": {"writer"}, "location": {"Yasnaya Polyana"}, "birth_date": {"1828-09-09"}}, as(t, app, leo))
	assert.Equal(t, "/account/", w.Header().Get("Location"))

	account := decode[AccountResponse](t, app.get("/account/", as(t, app, leo)))
	assert.Equal(t, "leo@example.org", account.Email)
	require.NotNil(t, account.Profile)
	assert.Equal(t, "writer", account.Profile.Bio)

	long := app.post("/account/edit_profile/", url.Values{"location": {strings.Repeat("x", models.MaxLocationLength+1)}}, as(t, app, leo))
	assert.Equal(t, http.StatusBadRequest, long.Code)

	type followers struct {
		Items []FollowerView `json:"items"`
	}
	list := decode[followers](t, app.get("/account/followers/", as(t, app, leo)))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "fan", list.Items[0].Username)
	assert.True(t, list.Items[0].FollowedBack)

	type following struct {
		Items []AuthorView `json:"items"`
	}
	assert.Len(t, decode[following](t, app.get("/account/follows/", as(t, app, fan))).Items, 1)
}

func TestDeletedAccountSessionIsSentToLogin(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")
	ghost := testhelpers.CreateUser(t, app.db, "ghost")
	post := testhelpers.CreatePost(t, app.db, leo, nil, "likeable")
	session := as(t, app, ghost)
	require.NoError(t, app.db.Delete(ghost).Error)

	likePath := fmt.Sprintf("/like/%d/", post.ID)
	w := app.get(likePath, session)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginRedirectURL(likePath), w.Header().Get("Location"))

	var stored models.Post
	require.NoError(t, app.db.First(&stored, post.ID).Error)
	assert.Zero(t, stored.Likes)
}

func TestStaffCreatesGroup(t *testing.T) {
	app := newTestApp(t)
	admin := testhelpers.CreateUser(t, app.db, "boss")
	require.NoError(t, app.db.Model(admin).Update("is_staff", true).Error)
	admin.IsStaff = true

	w := app.post("/admin/groups/", url.Values{"title": {"Cats"}, "slug": {"cats"}}, as(t, app, admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "cats", decode[GroupView](t, w).Slug)

	bad := app.post("/admin/groups/", url.Values{"title": {"Bad"}, "slug": {"not a slug"}}, as(t, app, admin))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	leo := testhelpers.CreateUser(t, app.db, "leo")

	w := app.get("/auth/logout/", as(t, app, leo))
	assert.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/no/such/page/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/no/such/page/", decode[middleware.ErrorResponse](t, w).Path)
}
