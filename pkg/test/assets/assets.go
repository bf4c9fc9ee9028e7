package assets_test

import (
	_ "embed"
)

//go:embed data/group.json
var group []byte

//go:embed data/scim_group.json
var scimGroup []byte

//go:embed data/patch.json
var patch []byte

func Group() []byte {
	return group
}

func SCIMGroup() []byte {
	return scimGroup
}

func PatchOp() []byte {
	return patch
}
