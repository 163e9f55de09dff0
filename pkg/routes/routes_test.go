package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/vantage/pkg/openapi"
	"github.com/JaimeStill/vantage/pkg/routes"
)

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/settings",
		Children: []routes.Group{{
			Prefix: "/watchlist",
			Routes: []routes.Route{{
				Method:  "GET",
				Pattern: "",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusAccepted)
				},
			}},
		}},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/settings/watchlist", nil))
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "t"}, "v1")
	noop := func(http.ResponseWriter, *http.Request) {}

	err := routes.Describe(spec, routes.Group{
		Prefix: "/settings",
		Children: []routes.Group{{
			Prefix: "/thresholds",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Summary: "List thresholds", Handler: noop},
				{Method: "PUT", Pattern: "/{geography_type}", Handler: noop},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	list, ok := spec.Paths["/settings/thresholds"]
	if !ok || list.Get == nil {
		t.Fatalf("missing GET /settings/thresholds: %+v", spec.Paths)
	}
	if list.Get.Summary != "List thresholds" {
		t.Errorf("summary = %q", list.Get.Summary)
	}
	if len(list.Get.Tags) != 1 || list.Get.Tags[0] != "settings" {
		t.Errorf("tags = %v, want [settings]", list.Get.Tags)
	}

	put := spec.Paths["/settings/thresholds/{geography_type}"]
	if put == nil || put.Put == nil {
		t.Fatal("missing PUT operation")
	}
	if len(put.Put.Parameters) != 1 || put.Put.Parameters[0].Name != "geography_type" {
		t.Errorf("parameters = %+v", put.Put.Parameters)
	}
}

func TestDescribeRejectsUnsupportedMethod(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{}, "v1")
	err := routes.Describe(spec, routes.Group{
		Prefix: "/x",
		Routes: []routes.Route{{Method: "PATCH", Pattern: "", Handler: func(http.ResponseWriter, *http.Request) {}}},
	})
	if err == nil {
		t.Fatal("expected error for PATCH")
	}
}
