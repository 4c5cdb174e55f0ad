package importer

import (
	"fmt"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// ValidateRoadmapSchema checks a definition before conversion. Returns a
// slice of all validation errors found.
func ValidateRoadmapSchema(schema *RoadmapSchema) []error {
	var errs []error

	if schema.Title == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	if schema.Description == "" {
		errs = append(errs, fmt.Errorf("description is required"))
	}
	if len(schema.Nodes) == 0 {
		errs = append(errs, fmt.Errorf("nodes must be a non-empty list"))
	}

	seen := make(map[string]bool, len(schema.Nodes))
	for i, n := range schema.Nodes {
		errs = append(errs, validateNode(i, n, seen)...)
	}

	return errs
}

func validateNode(i int, n NodeImport, seen map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("nodes[%d]", i)

	if n.ID == "" {
		errs = append(errs, fmt.Errorf("%s.id is required", prefix))
	} else if seen[n.ID] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, n.ID))
	} else {
		seen[n.ID] = true
	}

	if n.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if n.Status != "" && !domain.ValidMilestoneStatuses[n.Status] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, n.Status))
	}
	if n.Progress != nil && (*n.Progress < domain.MinProgress || *n.Progress > domain.MaxProgress) {
		errs = append(errs, fmt.Errorf("%s.progress: %d out of range 0-100", prefix, *n.Progress))
	}
	if n.Completed != nil && *n.Completed && n.Status != "" && n.Status != string(domain.MilestoneCompleted) {
		errs = append(errs, fmt.Errorf("%s: completed is true but status is %q", prefix, n.Status))
	}

	return errs
}
