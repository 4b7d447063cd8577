package query_test

import (
	"testing"

	"github.com/JaimeStill/vigil/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "situations", "s").
		Project("id", "id").
		Project("key", "key").
		Project("risk_label", "riskLabel").
		Project("position", "position")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	if got := p.From(); got != "public.situations s" {
		t.Errorf("From() = %q", got)
	}
	if got := p.Columns(); got != "s.id, s.key, s.risk_label, s.position" {
		t.Errorf("Columns() = %q", got)
	}
	if got := p.Column("riskLabel"); got != "s.risk_label" {
		t.Errorf("Column(riskLabel) = %q", got)
	}

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"view name", "riskLabel", "s.risk_label", true},
		{"column name", "risk_label", "s.risk_label", true},
		{"unknown", "password", "", false},
		{"injection", "key; DROP TABLE situations", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Lookup(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	fields := query.ParseSortFields(" position , -key ,")
	if len(fields) != 2 {
		t.Fatalf("fields = %+v, want 2", fields)
	}
	if fields[0].Field != "position" || fields[0].Descending {
		t.Errorf("first = %+v", fields[0])
	}
	if fields[1].Field != "key" || !fields[1].Descending {
		t.Errorf("second = %+v", fields[1])
	}

	if query.ParseSortFields("  ") != nil {
		t.Error("blank input should return nil")
	}
}

func TestBuilder(t *testing.T) {
	defaultSort := query.SortField{Field: "position"}

	tests := []struct {
		name     string
		build    func(b *query.Builder) (string, []any)
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "plain select uses default sort",
			build:   func(b *query.Builder) (string, []any) { return b.Build() },
			wantSQL: "SELECT s.id, s.key, s.risk_label, s.position FROM public.situations s ORDER BY s.position ASC",
		},
		{
			name: "search and equals number placeholders in order",
			build: func(b *query.Builder) (string, []any) {
				return b.
					WhereSearch(ptr("knife"), "key", "riskLabel").
					WhereEquals("position", 3).
					BuildCount()
			},
			wantSQL:  "SELECT COUNT(*) FROM public.situations s WHERE (s.key ILIKE $1 OR s.risk_label ILIKE $2) AND s.position = $3",
			wantArgs: 3,
		},
		{
			name: "nil filters are skipped",
			build: func(b *query.Builder) (string, []any) {
				var key *string
				return b.WhereContains("key", key).WhereEquals("position", (*int)(nil)).BuildCount()
			},
			wantSQL: "SELECT COUNT(*) FROM public.situations s",
		},
		{
			name: "explicit sort drops unknown fields",
			build: func(b *query.Builder) (string, []any) {
				return b.
					OrderByFields([]query.SortField{{Field: "key", Descending: true}, {Field: "nope"}}).
					BuildPage(2, 10)
			},
			wantSQL: "SELECT s.id, s.key, s.risk_label, s.position FROM public.situations s ORDER BY s.key DESC LIMIT 10 OFFSET 10",
		},
		{
			name: "single",
			build: func(b *query.Builder) (string, []any) {
				return b.BuildSingle("id", "abc")
			},
			wantSQL:  "SELECT s.id, s.key, s.risk_label, s.position FROM public.situations s WHERE s.id = $1",
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build(query.NewBuilder(testProjection(), defaultSort))
			if sql != tt.wantSQL {
				t.Errorf("sql =\n  %s\nwant\n  %s", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}
