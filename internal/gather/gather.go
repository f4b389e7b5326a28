// Package gather downloads daily OHLCV history for the configured company
// universe and persists it to the bar store. It is a collaborator of the
// detection engine, not part of it: the engine only ever sees the cleaned
// series the store hands back.
package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Gatherer is the interface for all data gathering processes.
type Gatherer interface {
	// Name returns the gatherer identifier.
	Name() string
	// Run starts the gathering process and blocks until done or ctx is
	// cancelled.
	Run(ctx context.Context) error
}

// LoadCompanyList reads a JSON array of symbols from path. Symbols are
// deduplicated and sorted; broker-style suffixes (e.g. "-EQ") are kept so
// the stored series matches the feed's identifier.
func LoadCompanyList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading company list: %w", err)
	}

	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("parsing company list %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(symbols))
	deduped := symbols[:0]
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		deduped = append(deduped, s)
	}
	sort.Strings(deduped)
	return deduped, nil
}
