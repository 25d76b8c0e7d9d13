package hostgroups

import "context"

// Group is a remote host group.
type Group struct {
	ID       string   `json:"id" yaml:"id"`
	ParentID string   `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Name     string   `json:"name" yaml:"name"`
	IPs      []string `json:"ranges,omitempty" yaml:"ips,omitempty"`
}

// Parent locates the group a new group is created under. Path holds the
// names from the top of the hierarchy down to and including the parent.
type Parent struct {
	ID   string
	Name string
	Path []string
}

// Port is the remote host group API.
type Port interface {
	// Groups lists every group with its id, name and parent id. IP lists
	// may be left empty.
	Groups(ctx context.Context) ([]Group, error)

	// Group fetches one group including its IP list.
	Group(ctx context.Context, id string) (Group, error)

	// Create creates group under parent and returns it with its new id.
	Create(ctx context.Context, parent Parent, group Group) (Group, error)

	// Update replaces the IP list of the group with the given id.
	Update(ctx context.Context, id string, ips []string) error

	// Delete removes the group with the given id.
	Delete(ctx context.Context, id string) error
}
