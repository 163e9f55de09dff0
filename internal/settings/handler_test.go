package settings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/settings"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/routes"
)

type mockSystem struct {
	settings.System
	listFn   func(ctx context.Context, page pagination.PageRequest, f settings.WatchlistFilter) (*pagination.PageResult[settings.WatchlistEntry], error)
	saveFn   func(ctx context.Context, geo string, cmd settings.ThresholdCommand) (*settings.Threshold, error)
	addFn    func(ctx context.Context, region string) (*settings.WatchlistEntry, error)
	removeFn func(ctx context.Context, id uuid.UUID) error
	deleteFn func(ctx context.Context, geo string) error
}

func (m *mockSystem) SaveThreshold(ctx context.Context, geo string, cmd settings.ThresholdCommand) (*settings.Threshold, error) {
	return m.saveFn(ctx, geo, cmd)
}

func (m *mockSystem) AddRegion(ctx context.Context, region string) (*settings.WatchlistEntry, error) {
	return m.addFn(ctx, region)
}

func (m *mockSystem) RemoveRegion(ctx context.Context, id uuid.UUID) error {
	return m.removeFn(ctx, id)
}

func (m *mockSystem) DeleteThreshold(ctx context.Context, geo string) error {
	return m.deleteFn(ctx, geo)
}

func (m *mockSystem) Watchlist(ctx context.Context, page pagination.PageRequest, f settings.WatchlistFilter) (*pagination.PageResult[settings.WatchlistEntry], error) {
	return m.listFn(ctx, page, f)
}

func (m *mockSystem) Thresholds(ctx context.Context) ([]settings.Threshold, error) {
	return settings.DefaultThresholds(), nil
}

func serve(sys settings.System, method, target, body string) *httptest.ResponseRecorder {
	h := settings.NewHandler(sys, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListThresholds(t *testing.T) {
	rec := serve(&mockSystem{}, http.MethodGet, "/settings/thresholds", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got []settings.Threshold
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d thresholds", len(got))
	}
}

func TestHandlerSaveThreshold(t *testing.T) {
	var geo string
	var cmd settings.ThresholdCommand
	sys := &mockSystem{saveFn: func(_ context.Context, g string, c settings.ThresholdCommand) (*settings.Threshold, error) {
		geo, cmd = g, c
		return &settings.Threshold{GeographyType: g, Amber: c.Amber, Red: c.Red}, nil
	}}

	rec := serve(sys, http.MethodPut, "/settings/thresholds/Coastal", `{"amber":65,"red":85}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if geo != "Coastal" || cmd.Amber != 65 || cmd.Red != 85 {
		t.Errorf("saved %s %+v", geo, cmd)
	}
}

func TestHandlerSaveThresholdInvalidBody(t *testing.T) {
	rec := serve(&mockSystem{}, http.MethodPut, "/settings/thresholds/Coastal", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerDeleteThresholdNotFound(t *testing.T) {
	sys := &mockSystem{deleteFn: func(context.Context, string) error { return settings.ErrNotFound }}

	rec := serve(sys, http.MethodDelete, "/settings/thresholds/Arctic", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerAddRegion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"created", nil, http.StatusCreated},
		{"duplicate", settings.ErrDuplicate, http.StatusConflict},
		{"invalid", settings.ErrInvalid, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{addFn: func(_ context.Context, region string) (*settings.WatchlistEntry, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &settings.WatchlistEntry{ID: uuid.New(), Region: region}, nil
			}}

			rec := serve(sys, http.MethodPost, "/settings/watchlist", `{"region":"Outer Banks"}`)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerRemoveRegion(t *testing.T) {
	id := uuid.New()
	var got uuid.UUID
	sys := &mockSystem{removeFn: func(_ context.Context, x uuid.UUID) error {
		got = x
		return nil
	}}

	rec := serve(sys, http.MethodDelete, "/settings/watchlist/"+id.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got != id {
		t.Errorf("removed %s, want %s", got, id)
	}

	rec = serve(sys, http.MethodDelete, "/settings/watchlist/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestHandlerListWatchlist(t *testing.T) {
	var gotPage pagination.PageRequest
	var gotFilter settings.WatchlistFilter
	sys := &mockSystem{listFn: func(_ context.Context, page pagination.PageRequest, f settings.WatchlistFilter) (*pagination.PageResult[settings.WatchlistEntry], error) {
		gotPage, gotFilter = page, f
		items := []settings.WatchlistEntry{{ID: uuid.New(), Region: "California Coast"}}
		result := pagination.NewPageResult(items, 1, page.Page, page.PageSize)
		return &result, nil
	}}

	rec := serve(sys, http.MethodGet, "/settings/watchlist?search=coast&sort=region&page=1&page_size=500", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotPage.PageSize != 100 {
		t.Errorf("page size = %d, want clamp to 100", gotPage.PageSize)
	}
	if gotFilter.Search != "coast" || len(gotFilter.Sort) != 1 {
		t.Errorf("filter = %+v", gotFilter)
	}

	var result pagination.PageResult[settings.WatchlistEntry]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || result.Data[0].Region != "California Coast" {
		t.Errorf("result = %+v", result)
	}
}
