package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/r-mibu/congress/policy"
)

// catalogEntry is the YAML shape of one service's schema:
//
//	nova:
//	  complete: true
//	  tables:
//	    servers: [id, name, status]
type catalogEntry struct {
	Complete bool                `yaml:"complete"`
	Tables   map[string][]string `yaml:"tables"`
}

// LoadSchemas reads a YAML schema catalog mapping service names to
// their table declarations and completeness flags
func LoadSchemas(path string) (map[string]*policy.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchemas(data)
}

// ParseSchemas parses YAML schema catalog bytes
func ParseSchemas(data []byte) (map[string]*policy.Schema, error) {
	var catalog map[string]catalogEntry
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("bad schema catalog: %w", err)
	}
	theories := make(map[string]*policy.Schema, len(catalog))
	for service, entry := range catalog {
		theories[service] = policy.NewSchema(entry.Tables, entry.Complete)
	}
	return theories, nil
}
