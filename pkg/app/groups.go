package app

import (
	"net/http"

	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/common"
	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/elimity-com/scim"
	serrors "github.com/elimity-com/scim/errors"
	"github.com/pkg/errors"
)

// GroupResourceHandler serves SCIM group provisioning on top of the group handler.
type GroupResourceHandler struct {
	handler *groups.GroupHandler
}

func NewGroupResourceHandler(handler *groups.GroupHandler) *GroupResourceHandler {
	return &GroupResourceHandler{
		handler: handler,
	}
}

func (g GroupResourceHandler) Create(r *http.Request, attributes scim.ResourceAttributes) (scim.Resource, error) {
	grp, err := common.ResourceAttributesToGroup(attributes)
	if err != nil {
		return scim.Resource{}, err
	}

	created, err := g.handler.Create(r.Context(), &groups.GroupInput{
		Name:    grp.Name,
		Members: grp.Members,
	})
	if err != nil {
		return scim.Resource{}, scimError("", err)
	}

	return common.GroupToResource(created), nil
}

func (g GroupResourceHandler) Delete(r *http.Request, id string) error {
	return scimError(id, g.handler.Delete(r.Context(), id))
}

func (g GroupResourceHandler) Get(r *http.Request, id string) (scim.Resource, error) {
	grp, err := g.handler.Get(r.Context(), id)
	if err != nil {
		return scim.Resource{}, scimError(id, err)
	}

	return common.GroupToResource(grp), nil
}

func (g GroupResourceHandler) GetAll(r *http.Request, params scim.ListRequestParams) (scim.Page, error) {
	all, err := g.handler.List(r.Context())
	if err != nil {
		return scim.Page{}, scimError("", err)
	}

	matching := make([]scim.Resource, 0, len(all))
	for _, grp := range all {
		resource := common.GroupToResource(grp)
		if params.FilterValidator == nil || params.FilterValidator.PassesFilter(resource.Attributes) == nil {
			matching = append(matching, resource)
		}
	}

	start := params.StartIndex - 1
	if start < 0 {
		start = 0
	}
	if start > len(matching) {
		start = len(matching)
	}

	end := len(matching)
	if params.Count > 0 && start+params.Count < end {
		end = start + params.Count
	}

	return scim.Page{
		TotalResults: len(matching),
		Resources:    matching[start:end],
	}, nil
}

func (g GroupResourceHandler) Patch(r *http.Request, id string, operations []scim.PatchOperation) (scim.Resource, error) {
	grp, err := g.handler.Get(r.Context(), id)
	if err != nil {
		return scim.Resource{}, scimError(id, err)
	}

	for _, op := range operations {
		if err := common.ApplyPatch(grp, op); err != nil {
			return scim.Resource{}, err
		}
	}

	return g.update(r, id, grp)
}

// Replace overwrites displayName and members. sendMailTo is kept as stored.
func (g GroupResourceHandler) Replace(r *http.Request, id string, attributes scim.ResourceAttributes) (scim.Resource, error) {
	existing, err := g.handler.Get(r.Context(), id)
	if err != nil {
		return scim.Resource{}, scimError(id, err)
	}

	grp, err := common.ResourceAttributesToGroup(attributes)
	if err != nil {
		return scim.Resource{}, err
	}
	grp.SendMailTo = existing.SendMailTo

	return g.update(r, id, grp)
}

func (g GroupResourceHandler) update(r *http.Request, id string, grp *model.Group) (scim.Resource, error) {
	updated, err := g.handler.Update(r.Context(), id, &groups.GroupInput{
		Name:       grp.Name,
		Members:    grp.Members,
		SendMailTo: grp.SendMailTo,
	})
	if err != nil {
		return scim.Resource{}, scimError(id, err)
	}

	return common.GroupToResource(updated), nil
}

func scimError(id string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, model.ErrGroupExists) {
		return serrors.ScimErrorUniqueness
	}

	switch groups.KindOf(err) {
	case groups.NotFound:
		return serrors.ScimErrorResourceNotFound(id)
	case groups.PreconditionFailed, groups.InvalidInput:
		return serrors.ScimErrorBadRequest(err.Error())
	case groups.ReferentialIntegrityViolation:
		return serrors.ScimError{Detail: err.Error(), Status: http.StatusConflict}
	default:
		return err
	}
}
