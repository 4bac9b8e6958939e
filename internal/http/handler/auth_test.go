package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"floorwatch.app/tracker/internal/http/handler"
	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/service"
)

var _ = Describe("AuthHandler", func() {
	var (
		router *gin.Engine
		svc    *mockAuthService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockAuthService{}
		h := handler.NewAuthHandler(svc)
		router.POST("/auth/login", h.Login)
	})

	It("returns 200 with the user on valid credentials", func() {
		svc.loginFn = func(_ context.Context, username, password string) (*model.User, error) {
			Expect(username).To(Equal("admin"))
			Expect(password).To(Equal("1234"))
			return &model.User{ID: 1, Username: "admin", Name: "Administrator"}, nil
		}

		body, _ := json.Marshal(map[string]string{"username": "admin", "password": "1234"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["success"]).To(BeTrue())
		user, ok := resp["user"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(user["username"]).To(Equal("admin"))
	})

	It("returns 401 on wrong credentials", func() {
		svc.loginFn = func(_ context.Context, _, _ string) (*model.User, error) {
			return nil, service.ErrInvalidCredentials
		}

		body, _ := json.Marshal(map[string]string{"username": "admin", "password": "nope"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("returns 400 when credentials are missing", func() {
		body, _ := json.Marshal(map[string]string{"username": "admin"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
