package catalog

// Plan is one purchasable plan within a catalog version
type Plan struct {
	Name        string       `json:"name"`
	ProductName string       `json:"product"`
	Phases      []*PlanPhase `json:"phases"`
}

// FinalPhase returns the last phase of the plan, nil for an empty plan
func (p *Plan) FinalPhase() *PlanPhase {
	if len(p.Phases) == 0 {
		return nil
	}
	return p.Phases[len(p.Phases)-1]
}
