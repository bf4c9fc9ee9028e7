package groups

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/pkg/errors"
)

// UserRefs decodes either a single user reference or a list of them.
type UserRefs []string

func (u *UserRefs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*u = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*u = UserRefs{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("expected a user reference or a list of user references")
	}

	*u = many

	return nil
}

// GroupInput is the payload of create and update requests.
type GroupInput struct {
	Name       string   `json:"name"`
	Members    UserRefs `json:"members"`
	SendMailTo UserRefs `json:"sendMailTo"`
}

func (in *GroupInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return newError(InvalidInput, "Invalid Group Data: name is required")
	}

	return nil
}

// apply overwrites name, members and sendMailTo of grp.
func (in *GroupInput) apply(grp *model.Group) {
	grp.Name = in.Name
	grp.Members = []string(in.Members)
	grp.SendMailTo = []string(in.SendMailTo)
	grp.Normalize()
}
