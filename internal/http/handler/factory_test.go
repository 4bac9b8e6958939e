package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"floorwatch.app/tracker/internal/http/handler"
	"floorwatch.app/tracker/internal/model"
)

var _ = Describe("FactoryHandler", func() {
	var (
		router  *gin.Engine
		catalog *mockCatalog
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		catalog = &mockCatalog{}
		h := handler.NewFactoryHandler(catalog)
		router.GET("/api/factories", h.List)
	})

	It("returns 200 with the factory catalog", func() {
		catalog.listFn = func(_ context.Context) []model.Factory {
			return []model.Factory{
				{ID: "1", Name: "China Factory 1", Location: "Shanghai, China"},
				{ID: "2", Name: "China Factory 2", Location: "Shenzhen, China"},
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/api/factories", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp []model.Factory
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp).To(HaveLen(2))
		Expect(resp[0].Name).To(Equal("China Factory 1"))
	})

	It("returns 200 with an empty array when no factories are configured", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/factories", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})
})
