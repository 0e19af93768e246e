package models

// Goal is a yearly reading target. Goals are keyed by year in the
// collection's goal map; an inactive goal keeps its target so it can be
// reactivated later.
type Goal struct {
	Target   int  `json:"target"`
	IsActive bool `json:"isActive"`
}

// DefaultGoalTarget is the target a lazily created goal starts with.
const DefaultGoalTarget = 12
