package authControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/testutil"
)

func postJSON(t *testing.T, handler gin.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func register(t *testing.T, db *gorm.DB, email string) *httptest.ResponseRecorder {
	t.Helper()
	return postJSON(t, Register(db), RegisterInput{
		Name:     "Test Customer",
		Email:    email,
		Password: "sup3rsecret",
	})
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testutil.OpenDB(t)

	w := register(t, db, "eco@example.com")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	w = postJSON(t, Login(db), LoginInput{Email: "eco@example.com", Password: "sup3rsecret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testutil.OpenDB(t)

	require.Equal(t, http.StatusCreated, register(t, db, "dup@example.com").Code)
	assert.Equal(t, http.StatusBadRequest, register(t, db, "dup@example.com").Code)
}

func TestLoginWrongPasswordDoesNotLeakExistence(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := testutil.OpenDB(t)
	require.Equal(t, http.StatusCreated, register(t, db, "known@example.com").Code)

	known := postJSON(t, Login(db), LoginInput{Email: "known@example.com", Password: "wrongpass"})
	unknown := postJSON(t, Login(db), LoginInput{Email: "nobody@example.com", Password: "wrongpass"})

	assert.Equal(t, http.StatusUnauthorized, known.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())
}
