// Package treemap builds the color-coded status tree over the facility
// hierarchy.
package treemap

import (
	"time"
)

// Status is the rollup color of a node. Severity order for rollup is
// red > amber > grey > green.
type Status string

const (
	StatusGrey  Status = "grey"
	StatusAmber Status = "amber"
	StatusRed   Status = "red"
	StatusGreen Status = "green"
)

var severityOf = map[Status]int{
	StatusGreen: 0,
	StatusGrey:  1,
	StatusAmber: 2,
	StatusRed:   3,
}

// moreSevere returns the worse of two statuses.
func moreSevere(a, b Status) Status {
	if severityOf[b] > severityOf[a] {
		return b
	}
	return a
}

// InmateDetail is the per-inmate verification line shown on occupied
// nodes.
type InmateDetail struct {
	InmateID   string     `json:"inmate_id"`
	Name       string     `json:"name,omitempty"`
	Status     string     `json:"status"`
	Confidence float64    `json:"confidence,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// Metadata carries the counts and detail behind a node's color.
type Metadata struct {
	InmateCount   int            `json:"inmate_count"`
	VerifiedCount int            `json:"verified_count"`
	FailedCount   int            `json:"failed_count"`
	ScheduledTime *time.Time     `json:"scheduled_time,omitempty"`
	ActualTime    *time.Time     `json:"actual_time,omitempty"`
	Inmates       []InmateDetail `json:"inmates,omitempty"`
}

// Node is one tile of the status tree. Built fresh per query, never
// mutated after construction.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Value    int      `json:"value"`
	Status   Status   `json:"status"`
	Children []*Node  `json:"children,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Size returns the number of nodes in the subtree.
func (n *Node) Size() int {
	total := 1
	for _, child := range n.Children {
		total += child.Size()
	}
	return total
}
