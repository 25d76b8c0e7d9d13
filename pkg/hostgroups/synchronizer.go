// Package hostgroups keeps the host groups of a remote analytics system in
// line with the device table.
//
// Managed groups live in one intermediate container under a well-known
// root group ("Inside Hosts" / "Net Organizer Groups" by default). A push
// reads the current groups, classifies the differences, then creates,
// updates and deletes groups in that order. The first failed mutation
// aborts the push; earlier mutations are not rolled back.
package hostgroups

import (
	"context"
	"fmt"
	"strings"

	"github.com/netorganizer/netorg/pkg/differ"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
)

// Synchronizer pushes a desired group to IP list mapping to a Port.
type Synchronizer struct {
	port Port
	opts *options
}

// New creates a Synchronizer.
func New(port Port, opts ...Option) *Synchronizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Synchronizer{port: port, opts: o}
}

// Result reports what a push changed.
type Result struct {
	DryRun           bool                       `json:"dry_run" yaml:"dry_run"`
	Changeset        *differ.HostGroupChangeset `json:"changeset" yaml:"changeset"`
	ContainerCreated bool                       `json:"container_created" yaml:"container_created"`
	Created          []string                   `json:"created" yaml:"created"`
	Updated          []string                   `json:"updated" yaml:"updated"`
	Deleted          []string                   `json:"deleted" yaml:"deleted"`
	Skipped          []string                   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	var parts []string
	if r.DryRun {
		parts = append(parts, "dry run")
	}
	parts = append(parts,
		fmt.Sprintf("%d created", len(r.Created)),
		fmt.Sprintf("%d updated", len(r.Updated)),
		fmt.Sprintf("%d deleted", len(r.Deleted)))
	if len(r.Skipped) > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", len(r.Skipped)))
	}
	return strings.Join(parts, ", ")
}

// Current returns the managed groups and their IP lists. A missing root or
// container yields an empty mapping.
func (s *Synchronizer) Current(ctx context.Context) (map[string][]string, error) {
	groups, err := s.port.Groups(ctx)
	if err != nil {
		return nil, errors.WrapResource("query", "host groups", err)
	}
	return s.current(ctx, groups)
}

func (s *Synchronizer) current(ctx context.Context, groups []Group) (map[string][]string, error) {
	current := make(map[string][]string)

	root := findGroup(groups, s.opts.root, nil)
	if root == nil {
		return current, nil
	}
	container := findGroup(groups, s.opts.container, &root.ID)
	if container == nil {
		return current, nil
	}

	for _, g := range groups {
		if g.ParentID != container.ID {
			continue
		}
		detail, err := s.port.Group(ctx, g.ID)
		if err != nil {
			return nil, errors.WrapResource("query", "host group "+g.Name, err)
		}
		current[g.Name] = detail.IPs
	}

	logging.Ctx(ctx).Debug().Int("groups", len(current)).Msg("Queried current host groups")
	return current, nil
}

// Push makes the managed groups match desired.
func (s *Synchronizer) Push(ctx context.Context, desired map[string][]string) (*Result, error) {
	log := logging.Ctx(ctx)

	// Step 1: Query remote state
	groups, err := s.port.Groups(ctx)
	if err != nil {
		return nil, errors.WrapResource("query", "host groups", err)
	}
	current, err := s.current(ctx, groups)
	if err != nil {
		return nil, err
	}

	// Step 2: Classify differences
	changeset := s.opts.differ.HostGroups(current, desired)
	apply := changeset.Filter(s.opts.strategy)
	result := &Result{
		DryRun:    s.opts.dryRun,
		Changeset: changeset,
		Created:   []string{},
		Updated:   []string{},
		Deleted:   []string{},
	}
	log.Info().
		Int("create", len(apply.Create)).
		Int("update", len(apply.Update)).
		Int("delete", len(apply.Delete)).
		Str("strategy", string(s.opts.strategy)).
		Msg("Host group changes detected")

	if s.opts.dryRun {
		return result, nil
	}

	// Step 3: Ensure the container exists
	container, created, err := s.ensureContainer(ctx, groups)
	if err != nil {
		return result, err
	}
	result.ContainerCreated = created

	// Step 4: Create new groups
	parent := Parent{ID: container, Name: s.opts.container, Path: []string{s.opts.root, s.opts.container}}
	for _, name := range apply.Create {
		if _, err := s.port.Create(ctx, parent, Group{Name: name, IPs: desired[name]}); err != nil {
			return result, syncFailed(ctx, "create", name, err)
		}
		result.Created = append(result.Created, name)
		log.Info().Str("group", name).Strs("ips", desired[name]).Msg("Host group created")
	}

	// Step 5: Update changed groups
	for _, name := range apply.Update {
		id := childID(groups, container, name)
		if id == "" {
			result.Skipped = append(result.Skipped, name)
			log.Warn().Str("group", name).Msg("Host group to update not found")
			continue
		}
		if err := s.port.Update(ctx, id, desired[name]); err != nil {
			return result, syncFailed(ctx, "update", name, err)
		}
		result.Updated = append(result.Updated, name)
		log.Info().Str("group", name).Strs("ips", desired[name]).Msg("Host group updated")
	}

	// Step 6: Delete groups no longer needed
	for _, name := range apply.Delete {
		id := childID(groups, container, name)
		if id == "" {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if err := s.port.Delete(ctx, id); err != nil {
			// removed remotely since the listing
			if errors.IsNotFound(err) {
				log.Warn().Str("group", name).Msg("Host group already gone")
				result.Skipped = append(result.Skipped, name)
				continue
			}
			return result, syncFailed(ctx, "delete", name, err)
		}
		result.Deleted = append(result.Deleted, name)
		log.Info().Str("group", name).Msg("Host group deleted")
	}

	return result, nil
}

// ensureContainer returns the container id, creating the container under
// the root if needed.
func (s *Synchronizer) ensureContainer(ctx context.Context, groups []Group) (string, bool, error) {
	root := findGroup(groups, s.opts.root, nil)
	if root == nil {
		return "", false, errors.NewGroupSyncError("create", s.opts.container,
			errors.NewNotFoundError("host group", s.opts.root))
	}
	if container := findGroup(groups, s.opts.container, &root.ID); container != nil {
		return container.ID, false, nil
	}

	parent := Parent{ID: root.ID, Name: s.opts.root, Path: []string{s.opts.root}}
	created, err := s.port.Create(ctx, parent, Group{Name: s.opts.container})
	if err != nil {
		return "", false, syncFailed(ctx, "create", s.opts.container, err)
	}
	logging.Ctx(ctx).Info().Str("group", s.opts.container).Str("id", created.ID).Msg("Container group created")
	return created.ID, true, nil
}

// syncFailed logs a rejected group change and wraps it for the caller.
func syncFailed(ctx context.Context, op, group string, err error) error {
	logging.Ctx(logging.WithError(logging.WithGroup(ctx, group), err)).
		Error().Str("op", op).Msg("Host group change failed")
	return errors.NewGroupSyncError(op, group, err)
}

// findGroup returns the first group called name, restricted to children of
// parentID when it is not nil.
func findGroup(groups []Group, name string, parentID *string) *Group {
	for i := range groups {
		if groups[i].Name != name {
			continue
		}
		if parentID != nil && groups[i].ParentID != *parentID {
			continue
		}
		return &groups[i]
	}
	return nil
}

// childID resolves a managed group id by name. A group that does not exist
// resolves to "".
func childID(groups []Group, containerID, name string) string {
	if g := findGroup(groups, name, &containerID); g != nil {
		return g.ID
	}
	return ""
}
