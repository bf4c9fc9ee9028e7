package common

import (
	"strings"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/elimity-com/scim"
	serrors "github.com/elimity-com/scim/errors"
	"github.com/samber/lo"
	"github.com/scim2/filter-parser/v2"
)

const (
	attrDisplayName = "displayname"
	attrMembers     = "members"
)

// ApplyPatch applies a single SCIM patch operation to grp in place.
// Only displayName and members are patchable.
func ApplyPatch(grp *model.Group, op scim.PatchOperation) error {
	switch strings.ToLower(op.Op) {
	case scim.PatchOperationAdd:
		return handlePatchOPAdd(grp, op)
	case scim.PatchOperationRemove:
		return handlePatchOPRemove(grp, op)
	case scim.PatchOperationReplace:
		return handlePatchOPReplace(grp, op)
	default:
		return serrors.ScimErrorInvalidSyntax
	}
}

func handlePatchOPAdd(grp *model.Group, op scim.PatchOperation) error {
	if op.Path == nil {
		return patchEach(grp, op.Value, handlePatchOPAdd)
	}

	switch strings.ToLower(op.Path.AttributePath.AttributeName) {
	case attrDisplayName:
		return setDisplayName(grp, op.Value)
	case attrMembers:
		values, err := memberValues(op.Value)
		if err != nil {
			return err
		}
		grp.Members = model.UserRefSet(append(grp.Members, values...))
	default:
		return serrors.ScimErrorBadRequest("unsupported attribute " + op.Path.AttributePath.AttributeName)
	}

	return nil
}

func handlePatchOPRemove(grp *model.Group, op scim.PatchOperation) error {
	if op.Path == nil {
		return serrors.ScimErrorBadRequest("remove operation requires a path")
	}

	switch strings.ToLower(op.Path.AttributePath.AttributeName) {
	case attrDisplayName:
		return serrors.ScimErrorMutability
	case attrMembers:
		if value, ok := filterValue(op.Path); ok {
			grp.Members = lo.Without(grp.Members, value)
			return nil
		}

		if op.Value == nil {
			grp.Members = []string{}
			return nil
		}

		values, err := memberValues(op.Value)
		if err != nil {
			return err
		}
		grp.Members = lo.Without(grp.Members, values...)
	default:
		return serrors.ScimErrorBadRequest("unsupported attribute " + op.Path.AttributePath.AttributeName)
	}

	return nil
}

func handlePatchOPReplace(grp *model.Group, op scim.PatchOperation) error {
	if op.Path == nil {
		return patchEach(grp, op.Value, handlePatchOPReplace)
	}

	switch strings.ToLower(op.Path.AttributePath.AttributeName) {
	case attrDisplayName:
		return setDisplayName(grp, op.Value)
	case attrMembers:
		values, err := memberValues(op.Value)
		if err != nil {
			return err
		}
		grp.Members = model.UserRefSet(values)
	default:
		return serrors.ScimErrorBadRequest("unsupported attribute " + op.Path.AttributePath.AttributeName)
	}

	return nil
}

// patchEach handles path-less operations whose value is a map of attribute name to value.
func patchEach(grp *model.Group, value interface{}, apply func(*model.Group, scim.PatchOperation) error) error {
	attributes, ok := value.(map[string]interface{})
	if !ok {
		return serrors.ScimErrorInvalidSyntax
	}

	for name, attrValue := range attributes {
		path, err := filter.ParsePath([]byte(name))
		if err != nil {
			return serrors.ScimErrorInvalidPath
		}

		if err := apply(grp, scim.PatchOperation{Path: &path, Value: attrValue}); err != nil {
			return err
		}
	}

	return nil
}

func setDisplayName(grp *model.Group, value interface{}) error {
	name, ok := value.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return serrors.ScimErrorInvalidValue
	}

	grp.Name = name

	return nil
}

// memberValues extracts user references from a member, a list of members or plain strings.
func memberValues(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case map[string]interface{}:
		ref, ok := v["value"].(string)
		if !ok {
			return nil, serrors.ScimErrorInvalidValue
		}
		return []string{ref}, nil
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			refs, err := memberValues(item)
			if err != nil {
				return nil, err
			}
			values = append(values, refs...)
		}
		return values, nil
	default:
		return nil, serrors.ScimErrorInvalidValue
	}
}

// filterValue returns x for a path of the form members[value eq "x"].
func filterValue(path *filter.Path) (string, bool) {
	expr, ok := path.ValueExpression.(*filter.AttributeExpression)
	if !ok || expr.Operator != filter.EQ || !strings.EqualFold(expr.AttributePath.AttributeName, "value") {
		return "", false
	}

	value, ok := expr.CompareValue.(string)

	return value, ok
}
