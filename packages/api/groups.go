package api

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/studyhub/packages/http"
)

// ListGroups returns every group. The backend answers 200 with an "error"
// field when its database is down; that comes back as *APIError.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	resp, err := c.http.Get(ctx, PathGroups, nil)
	if err != nil {
		return nil, err
	}

	b := newBody(resp)
	if b.Has("error") {
		return nil, &APIError{Method: "GET", Path: PathGroups, Message: b.String("error")}
	}

	var out struct {
		Groups []Group `json:"groups"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding groups: %w", err)
	}
	return out.Groups, nil
}

// storedGroup is a group as the database holds it, keyed by _id
type storedGroup struct {
	Group
	StoredID string `json:"_id"`
}

// MyGroups returns the groups the signed-in user created.
func (c *Client) MyGroups(ctx context.Context) ([]Group, error) {
	var stored []storedGroup
	if _, err := c.http.Do(ctx, http.NewRequest("GET", PathMyGroups).SetResult(&stored)); err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(stored))
	for _, s := range stored {
		g := s.Group
		if g.ID == "" {
			g.ID = s.StoredID
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CreateGroup validates in and creates the group. Invalid input is never sent.
func (c *Client) CreateGroup(ctx context.Context, in GroupInput) (*Group, error) {
	if err := ValidateGroup(in); err != nil {
		return nil, err
	}

	var out struct {
		Group *Group `json:"group"`
		ID    string `json:"id"`
	}
	resp, err := c.http.Do(ctx, http.NewRequest("POST", PathCreateGroup).SetBody(in).SetResult(&out))
	if err != nil {
		return nil, err
	}
	if b := newBody(resp); b.Has("error") {
		return nil, &APIError{Method: "POST", Path: PathCreateGroup, Message: b.String("error")}
	}

	if out.Group == nil {
		// the insert succeeded but the re-read did not
		return &Group{
			ID:               out.ID,
			GroupName:        in.GroupName,
			Subject:          in.Subject,
			Description:      in.Description,
			MaxMembers:       in.MaxMembers,
			SkillLevel:       in.SkillLevel,
			MeetingFrequency: in.MeetingFrequency,
			MeetingTime:      in.MeetingTime,
			MeetingDate:      in.MeetingDate,
			Location:         in.Location,
		}, nil
	}
	if out.Group.ID == "" {
		out.Group.ID = out.ID
	}
	return out.Group, nil
}
