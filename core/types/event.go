package types

// Event is the generic attribute form of a state-change notification, the
// shape handed to indexers and explorers once a pool mutation commits.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
