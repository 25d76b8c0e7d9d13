package sna

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/hostgroups"
)

// HostGroups implements hostgroups.Port over the tag API.
type HostGroups struct {
	session *Session
}

var _ hostgroups.Port = (*HostGroups)(nil)

// NewHostGroups creates a host group port on a logged-in session.
func NewHostGroups(session *Session) *HostGroups {
	return &HostGroups{session: session}
}

// Groups lists the tag tree flattened into groups with parent ids.
func (h *HostGroups) Groups(ctx context.Context) ([]hostgroups.Group, error) {
	res, err := h.session.api.GetJSON(ctx, h.session.tagsPath("tree"))
	if err != nil {
		return nil, err
	}

	var groups []hostgroups.Group
	var walk func(nodes gjson.Result, parentID string)
	walk = func(nodes gjson.Result, parentID string) {
		// leaves carry "children": null
		if !nodes.IsArray() {
			return
		}
		nodes.ForEach(func(_, n gjson.Result) bool {
			id := n.Get("id").String()
			if id == "" {
				return true
			}
			g := hostgroups.Group{
				ID:       id,
				ParentID: parentID,
				Name:     n.Get("name").String(),
			}
			groups = append(groups, g)
			walk(n.Get("children"), g.ID)
			return true
		})
	}
	res.Get("data").ForEach(func(_, tree gjson.Result) bool {
		if root := tree.Get("root"); root.IsArray() {
			walk(root, "")
		} else if root.IsObject() {
			walk(gjson.Parse("["+root.Raw+"]"), "")
		} else {
			walk(gjson.Parse("["+tree.Raw+"]"), "")
		}
		return true
	})
	return groups, nil
}

// Group fetches one tag with its ranges.
func (h *HostGroups) Group(ctx context.Context, id string) (hostgroups.Group, error) {
	res, err := h.session.api.GetJSON(ctx, h.session.tagsPath(id))
	if err != nil {
		return hostgroups.Group{}, err
	}
	data := res.Get("data")
	g := hostgroups.Group{
		ID:       data.Get("id").String(),
		ParentID: data.Get("parentId").String(),
		Name:     data.Get("name").String(),
		IPs:      []string{},
	}
	for _, r := range data.Get("ranges").Array() {
		g.IPs = append(g.IPs, r.String())
	}
	return g, nil
}

// Create creates an inside-hosts tag under parent.
func (h *HostGroups) Create(ctx context.Context, parent hostgroups.Parent, group hostgroups.Group) (hostgroups.Group, error) {
	parentPath := []string{}
	if len(parent.Path) > 0 {
		parentPath = parent.Path[:len(parent.Path)-1]
	}
	tag := map[string]any{
		"parentDisplay": map[string]any{
			"name": parent.Name,
			"path": parentPath,
		},
		"display": map[string]any{
			"path": parent.Path,
		},
		"parentId":                 idValue(parent.ID),
		"location":                 "INSIDE",
		"hostBaselines":            true,
		"suppressExcludedServices": true,
		"inverseSuppression":       false,
		"hostTrap":                 false,
		"name":                     group.Name,
	}
	if group.IPs != nil {
		tag["ranges"] = group.IPs
	}

	res, err := h.session.api.SendJSON(ctx, http.MethodPost, h.session.tagsPath(), []any{tag})
	if err != nil {
		return hostgroups.Group{}, err
	}
	id := res.Get("data.0.id")
	if !id.Exists() {
		return hostgroups.Group{}, errors.NewParseError("json", "", "create response carries no tag id", nil)
	}

	created := group
	created.ID = id.String()
	created.ParentID = parent.ID
	return created, nil
}

// Update replaces the ranges of a tag, keeping its other settings.
func (h *HostGroups) Update(ctx context.Context, id string, ips []string) error {
	res, err := h.session.api.GetJSON(ctx, h.session.tagsPath(id))
	if err != nil {
		return err
	}

	var tag map[string]any
	if err := json.Unmarshal([]byte(res.Get("data").Raw), &tag); err != nil {
		return errors.WrapParse("json", "", err)
	}
	if ips == nil {
		ips = []string{}
	}
	tag["ranges"] = ips

	_, err = h.session.api.SendJSON(ctx, http.MethodPut, h.session.tagsPath(id), tag)
	return err
}

// Delete removes a tag.
func (h *HostGroups) Delete(ctx context.Context, id string) error {
	_, err := h.session.api.Do(ctx, http.MethodDelete, h.session.tagsPath(id), nil, "")
	return err
}

// idValue sends numeric ids as JSON numbers.
func idValue(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
