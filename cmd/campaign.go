package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/podscout/internal/model"
)

// loadCampaign reads a campaign definition from a JSON or YAML file. The
// format follows the extension; anything that is not .json parses as YAML.
func loadCampaign(path string) (*model.CampaignConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read campaign file")
	}

	var c model.CampaignConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, eris.Wrap(err, "parse campaign JSON")
		}
	} else {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, eris.Wrap(err, "parse campaign YAML")
		}
	}
	return &c, nil
}
