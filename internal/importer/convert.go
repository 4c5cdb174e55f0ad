package importer

import (
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/google/uuid"
)

// Convert turns a validated schema into a roadmap ready for the store.
// Call ValidateRoadmapSchema first; Convert assumes the schema is valid.
// A missing roadmap id gets a random UUID. Node ids are kept as written.
func Convert(schema *RoadmapSchema) *domain.Roadmap {
	rm := &domain.Roadmap{
		ID:          domain.CoalesceStr(schema.ID, uuid.New().String()),
		Title:       schema.Title,
		Description: schema.Description,
		Milestones:  make([]domain.Milestone, 0, len(schema.Nodes)),
	}

	for _, n := range schema.Nodes {
		m := domain.Milestone{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Status:      domain.MilestoneStatus(n.Status),
			Progress:    domain.IntFromPtrWithDefault(0, n.Progress),
		}
		if n.Completed != nil && *n.Completed {
			m.Status = domain.MilestoneCompleted
		}
		if m.Status == "" && n.Progress == nil {
			m.Status = domain.MilestoneLocked
		}
		m.Normalize()
		rm.Milestones = append(rm.Milestones, m)
	}

	return rm
}

// FromRoadmap builds a definition from a roadmap, the inverse of Convert.
func FromRoadmap(rm *domain.Roadmap) *RoadmapSchema {
	schema := &RoadmapSchema{
		ID:          rm.ID,
		Title:       rm.Title,
		Description: rm.Description,
		Nodes:       make([]NodeImport, 0, len(rm.Milestones)),
	}
	for _, m := range rm.Milestones {
		p := m.Progress
		schema.Nodes = append(schema.Nodes, NodeImport{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Status:      string(m.Status),
			Progress:    &p,
		})
	}
	return schema
}
