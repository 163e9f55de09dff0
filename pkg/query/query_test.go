package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/vantage/pkg/query"
)

func watchlist() *query.ProjectionMap {
	return query.NewProjectionMap("watchlist", "w").
		Project("id", "id").
		Project("region", "region").
		Project("created_at", "created_at")
}

func TestProjection(t *testing.T) {
	p := watchlist()

	if got := p.From(); got != "watchlist w" {
		t.Errorf("From() = %q", got)
	}
	if got := p.Columns(); got != "w.id, w.region, w.created_at" {
		t.Errorf("Columns() = %q", got)
	}
	if col, ok := p.Column("region"); !ok || col != "w.region" {
		t.Errorf("Column(region) = %q, %v", col, ok)
	}
	if _, ok := p.Column("password"); ok {
		t.Error("unprojected field resolved")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in   string
		want []query.SortField
	}{
		{"", nil},
		{"region", []query.SortField{{Field: "region"}}},
		{"-created_at, region", []query.SortField{
			{Field: "created_at", Descending: true},
			{Field: "region"},
		}},
		{" , ,", nil},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, query.ParseSortFields(tt.in)); diff != "" {
			t.Errorf("ParseSortFields(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestBuild(t *testing.T) {
	qb := query.NewBuilder(watchlist(), query.SortField{Field: "created_at"})

	sql, args := qb.Build()
	if want := "SELECT w.id, w.region, w.created_at FROM watchlist w ORDER BY w.created_at ASC"; sql != want {
		t.Errorf("Build() = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildFiltered(t *testing.T) {
	qb := query.NewBuilder(watchlist()).
		WhereSearch("50%_off", "region", "id").
		WhereEquals("region", "Gulf Coast Texas").
		OrderByFields([]query.SortField{{Field: "region", Descending: true}, {Field: "bogus"}})

	sql, args := qb.BuildPage(2, 10)
	want := "SELECT w.id, w.region, w.created_at FROM watchlist w" +
		" WHERE (w.region ILIKE $1 OR w.id ILIKE $2) AND w.region = $3" +
		" ORDER BY w.region DESC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("BuildPage() =\n%q\nwant\n%q", sql, want)
	}

	wantArgs := []any{`%50\%\_off%`, `%50\%\_off%`, "Gulf Coast Texas"}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	count, countArgs := qb.BuildCount()
	if want := "SELECT COUNT(*) FROM watchlist w WHERE (w.region ILIKE $1 OR w.id ILIKE $2) AND w.region = $3"; count != want {
		t.Errorf("BuildCount() = %q", count)
	}
	if len(countArgs) != 3 {
		t.Errorf("count args = %v", countArgs)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	qb := query.NewBuilder(watchlist()).
		WhereEquals("secret", 1).
		WhereSearch("x", "secret").
		OrderByFields(query.ParseSortFields("-secret"))

	sql, args := qb.Build()
	if sql != "SELECT w.id, w.region, w.created_at FROM watchlist w" {
		t.Errorf("Build() = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}
