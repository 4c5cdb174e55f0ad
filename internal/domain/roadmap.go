package domain

type Roadmap struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Milestones  []Milestone `json:"milestones" yaml:"milestones"`
}

// Clone returns a deep copy. Clone of nil is nil.
func (r *Roadmap) Clone() *Roadmap {
	if r == nil {
		return nil
	}
	c := *r
	c.Milestones = cloneMilestones(r.Milestones)
	return &c
}

func cloneMilestones(ms []Milestone) []Milestone {
	if ms == nil {
		return nil
	}
	out := make([]Milestone, len(ms))
	copy(out, ms)
	return out
}
