package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tangerineArc/campus-roots-backend/models"
	"github.com/tangerineArc/campus-roots-backend/services"
	"github.com/tangerineArc/campus-roots-backend/storage"
	"github.com/tangerineArc/campus-roots-backend/utils"
	"gorm.io/gorm"
)

// buildMessagesTestApp wires the message routes against a fresh in-memory
// database, the way main does against Postgres.
func buildMessagesTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))
	storage.DB = db

	app := iris.New()
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(utils.AccessToken) })

	user := app.Party("/api/user", verifierMiddleware)
	{
		user.Get("/conversations", GetUserConversations)
		user.Get("/messages/{otherUserId:uint}", GetUserMessages)
	}
	require.NoError(t, app.Build())
	return app
}

func signMessagesTestToken(t *testing.T, id uint) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: models.RoleStudent})
	require.NoError(t, err)
	return string(token)
}

func seedMessagesFixture(t *testing.T) {
	t.Helper()

	users := []models.User{
		{Model: gorm.Model{ID: 1}, Name: "Alice", Email: "alice21@iitp.ac.in", Role: models.RoleStudent},
		{Model: gorm.Model{ID: 2}, Name: "Bob", Email: "bob15@iitp.ac.in", Role: models.RoleAlumnus},
		{Model: gorm.Model{ID: 3}, Name: "Carol", Email: "carol22@iitp.ac.in", Role: models.RoleStudent},
	}
	require.NoError(t, storage.DB.Create(&users).Error)

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		{Model: gorm.Model{CreatedAt: base}, SenderID: 1, ReceiverID: 2, Text: "hey bob", Status: models.MessageStatusUnread},
		{Model: gorm.Model{CreatedAt: base.Add(time.Minute)}, SenderID: 2, ReceiverID: 1, Text: "hey alice", Status: models.MessageStatusUnread},
		{Model: gorm.Model{CreatedAt: base.Add(time.Hour)}, SenderID: 3, ReceiverID: 1, Text: "hi from carol", Status: models.MessageStatusUnread},
	}
	require.NoError(t, storage.DB.Create(&messages).Error)
}

func doJSONRequest(t *testing.T, app *iris.Application, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestGetUserConversations(t *testing.T) {
	app := buildMessagesTestApp(t)
	seedMessagesFixture(t)

	resp := doJSONRequest(t, app, http.MethodGet, "/api/user/conversations", signMessagesTestToken(t, 1))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success       bool                           `json:"success"`
		Conversations []services.ConversationSummary `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Conversations, 2)

	assert.Equal(t, "Carol", body.Conversations[0].Name)
	assert.Equal(t, "hi from carol", body.Conversations[0].LastText)
	assert.Equal(t, "Bob", body.Conversations[1].Name)
	assert.Equal(t, "hey alice", body.Conversations[1].LastText)
	assert.True(t, body.Conversations[1].Verified)
}

func TestGetUserConversationsEmpty(t *testing.T) {
	app := buildMessagesTestApp(t)

	resp := doJSONRequest(t, app, http.MethodGet, "/api/user/conversations", signMessagesTestToken(t, 1))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success       bool                           `json:"success"`
		Conversations []services.ConversationSummary `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Empty(t, body.Conversations)
}

func TestGetUserMessages(t *testing.T) {
	app := buildMessagesTestApp(t)
	seedMessagesFixture(t)

	resp := doJSONRequest(t, app, http.MethodGet, "/api/user/messages/2", signMessagesTestToken(t, 1))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success  bool                      `json:"success"`
		Messages []services.DisplayMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Messages, 2)

	assert.Equal(t, "You", body.Messages[0].Sender)
	assert.Equal(t, "hey bob", body.Messages[0].Text)
	assert.Equal(t, "Bob", body.Messages[1].Sender)
	assert.Equal(t, "hey alice", body.Messages[1].Text)
}

func TestGetUserMessagesRejectsInvalidID(t *testing.T) {
	app := buildMessagesTestApp(t)

	resp := doJSONRequest(t, app, http.MethodGet, "/api/user/messages/0", signMessagesTestToken(t, 1))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMessagesEndpointsRequireAuthentication(t *testing.T) {
	app := buildMessagesTestApp(t)

	resp := doJSONRequest(t, app, http.MethodGet, "/api/user/conversations", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSONRequest(t, app, http.MethodGet, "/api/user/messages/2", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
