package common

import (
	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/elimity-com/scim"
	serrors "github.com/elimity-com/scim/errors"
)

// GroupToResource exposes name as displayName and each member as {"value": ref}.
// sendMailTo has no SCIM counterpart and is not exposed.
func GroupToResource(grp *model.Group) scim.Resource {
	members := make([]interface{}, 0, len(grp.Members))
	for _, ref := range grp.Members {
		members = append(members, map[string]interface{}{"value": ref})
	}

	return scim.Resource{
		ID: grp.ID,
		Attributes: scim.ResourceAttributes{
			"displayName": grp.Name,
			"members":     members,
		},
	}
}

// ResourceAttributesToGroup reads displayName and members from SCIM attributes.
func ResourceAttributesToGroup(attributes scim.ResourceAttributes) (*model.Group, error) {
	name, ok := attributes["displayName"].(string)
	if !ok {
		return nil, serrors.ScimErrorInvalidSyntax
	}

	grp := &model.Group{Name: name}

	if raw, ok := attributes["members"]; ok && raw != nil {
		members, err := memberValues(raw)
		if err != nil {
			return nil, err
		}
		grp.Members = members
	}

	grp.Normalize()

	return grp, nil
}
