package executor

import (
	"time"

	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// Status is the outcome of executing one node.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPass    Status = "pass"
	StatusWarn    Status = "warn"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Failed reports whether the status blocks downstream nodes.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusError || s == StatusSkipped
}

// NodeResult is the outcome of one node.
type NodeResult struct {
	Node         nodeid.ID
	Name         string
	ResourceType node.ResourceType
	Status       Status
	Message      string
	Duration     time.Duration
}

// Report holds the results of one execution, sorted by node id.
type Report struct {
	Results []NodeResult
	Elapsed time.Duration
}

// Counts returns the number of results per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Failed reports whether any node failed, errored, or was skipped.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status.Failed() {
			return true
		}
	}
	return false
}

// Result returns the result for id.
func (r *Report) Result(id nodeid.ID) (NodeResult, bool) {
	for _, res := range r.Results {
		if res.Node == id {
			return res, true
		}
	}
	return NodeResult{}, false
}
