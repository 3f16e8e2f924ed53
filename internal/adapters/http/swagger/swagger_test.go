package swagger_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/matchday/refassign/internal/adapters/http/swagger"
)

func TestRegister(t *testing.T) {
	Convey("Given a router with documentation routes", t, func() {
		r := chi.NewRouter()
		swagger.Register(r)

		Convey("When fetching the docs page", func() {
			req := httptest.NewRequest("GET", "/api-docs", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "redoc")
		})

		Convey("When fetching the OpenAPI spec", func() {
			req := httptest.NewRequest("GET", "/openapi.yaml", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/yaml")

			body := w.Body.String()
			So(strings.HasPrefix(body, "openapi:"), ShouldBeTrue)
			So(body, ShouldContainSubstring, "/assignments/full-details/{assignment_id}")
			So(body, ShouldContainSubstring, "Referee Assignment API")
		})
	})
}
