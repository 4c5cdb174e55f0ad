package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrInt(i int) *int    { return &i }
func ptrBool(b bool) *bool { return &b }

func validMinimalSchema() *RoadmapSchema {
	return &RoadmapSchema{
		Title:       "Backend Developer",
		Description: "From HTTP basics to deployment",
		Nodes: []NodeImport{
			{ID: "http", Title: "HTTP basics"},
		},
	}
}

func TestValidateRoadmapSchema_ValidMinimal(t *testing.T) {
	errs := ValidateRoadmapSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateRoadmapSchema_ValidFull(t *testing.T) {
	schema := &RoadmapSchema{
		ID:              "backend",
		Title:           "Backend Developer",
		Description:     "From HTTP basics to deployment",
		Category:        "engineering",
		DifficultyLevel: "intermediate",
		Tags:            []string{"go", "sql"},
		Nodes: []NodeImport{
			{ID: "http", Title: "HTTP basics", Completed: ptrBool(true)},
			{ID: "sql", Title: "SQL", Status: "in_progress", Progress: ptrInt(40)},
			{ID: "deploy", Title: "Deploy", Status: "locked"},
		},
	}
	assert.Empty(t, ValidateRoadmapSchema(schema))
}

func TestValidateRoadmapSchema_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *RoadmapSchema)
		wantMsg string
	}{
		{"missing title", func(s *RoadmapSchema) { s.Title = "" }, "title is required"},
		{"missing description", func(s *RoadmapSchema) { s.Description = "" }, "description is required"},
		{"no nodes", func(s *RoadmapSchema) { s.Nodes = nil }, "nodes must be a non-empty list"},
		{"node without id", func(s *RoadmapSchema) { s.Nodes[0].ID = "" }, "nodes[0].id is required"},
		{"node without title", func(s *RoadmapSchema) { s.Nodes[0].Title = "" }, "nodes[0].title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			tt.mutate(s)
			errs := ValidateRoadmapSchema(s)
			assert.NotEmpty(t, errs)
			assertContainsError(t, errs, tt.wantMsg)
		})
	}
}

func TestValidateRoadmapSchema_NodeValues(t *testing.T) {
	tests := []struct {
		name    string
		node    NodeImport
		wantMsg string
	}{
		{"bad status", NodeImport{ID: "x", Title: "X", Status: "done"}, `nodes[1].status: invalid value "done"`},
		{"progress too high", NodeImport{ID: "x", Title: "X", Progress: ptrInt(101)}, "nodes[1].progress: 101 out of range 0-100"},
		{"negative progress", NodeImport{ID: "x", Title: "X", Progress: ptrInt(-1)}, "nodes[1].progress: -1 out of range 0-100"},
		{"completed conflicts", NodeImport{ID: "x", Title: "X", Completed: ptrBool(true), Status: "locked"}, `completed is true but status is "locked"`},
		{"duplicate id", NodeImport{ID: "http", Title: "Again"}, `nodes[1].id: duplicate id "http"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			s.Nodes = append(s.Nodes, tt.node)
			assertContainsError(t, ValidateRoadmapSchema(s), tt.wantMsg)
		})
	}
}

func TestValidateRoadmapSchema_CollectsAllErrors(t *testing.T) {
	s := &RoadmapSchema{Nodes: []NodeImport{{}, {ID: "a", Title: "A", Status: "nope"}}}
	errs := ValidateRoadmapSchema(s)
	assert.Len(t, errs, 5)
}

func assertContainsError(t *testing.T, errs []error, want string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e.Error(), want) {
			return
		}
	}
	t.Errorf("expected an error containing %q, got %v", want, errs)
}
