package mock

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Session struct {
		ServerVersion string `yaml:"server_version"`
		ServerID      string `yaml:"server_id"`
	} `yaml:"session"`
	Users     []userFixture `yaml:"users"`
	ItemTypes []typeFixture `yaml:"item_types"`
	Items     []itemFixture `yaml:"items"`
	Favorites []favFixture  `yaml:"favorites"`
}

type userFixture struct {
	UID      string `yaml:"uid"`
	UserID   string `yaml:"user_id"`
	UserName string `yaml:"user_name"`
	Group    string `yaml:"group"`
	Role     string `yaml:"role"`
	Email    string `yaml:"email"`
}

type typeFixture struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
}

type itemFixture struct {
	UID               string   `yaml:"uid"`
	ItemID            string   `yaml:"item_id"`
	ObjectName        string   `yaml:"object_name"`
	ObjectType        string   `yaml:"object_type"`
	ItemRevisionID    string   `yaml:"item_revision_id"`
	OwningUser        string   `yaml:"owning_user"`
	CreationDate      string   `yaml:"creation_date"`
	LastModDate       string   `yaml:"last_mod_date"`
	ReleaseStatusList []string `yaml:"release_status_list"`
	ObjectDesc        string   `yaml:"object_desc"`
}

type favFixture struct {
	UID  string `yaml:"uid"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func loadFixtures() (*fixtures, error) {
	var f fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("decoding embedded fixtures: %w", err)
	}
	return &f, nil
}

// raw returns the item in the wire shape the backend would report it in.
func (i itemFixture) raw() map[string]any {
	statuses := make([]any, 0, len(i.ReleaseStatusList))
	for _, s := range i.ReleaseStatusList {
		statuses = append(statuses, s)
	}
	return map[string]any{
		"uid":                 i.UID,
		"item_id":             i.ItemID,
		"object_name":         i.ObjectName,
		"object_type":         i.ObjectType,
		"item_revision_id":    i.ItemRevisionID,
		"owning_user":         i.OwningUser,
		"creation_date":       i.CreationDate,
		"last_mod_date":       i.LastModDate,
		"release_status_list": statuses,
		"object_desc":         i.ObjectDesc,
	}
}
