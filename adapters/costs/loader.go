package costs

import (
	"encoding/json"
	"fmt"
	"os"

	"godiag/domain/costs"
)

// LoadCatalogFile builds a catalog from a JSON file holding an array of cost
// profiles. Used when an operator overrides the built-in market-research
// table; the qualitative strengths and limitations text stays built-in.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cost table %s: %w", path, err)
	}

	var profiles []costs.TechniqueCostProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse cost table %s: %w", path, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("cost table %s holds no profiles", path)
	}

	for i, p := range profiles {
		if p.Technique == "" {
			return nil, fmt.Errorf("cost table %s: profile %d has no technique key", path, i)
		}
	}

	return NewCatalog(profiles), nil
}
