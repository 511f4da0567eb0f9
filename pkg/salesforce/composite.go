package salesforce

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// maxBatchSize is the Salesforce Collections API limit per request.
const maxBatchSize = 200

// CreateLeads splits leads into batches of 200 (SF Collections API limit)
// and sends them via InsertCollection. Results are in input order; leads
// that fail validation get a failed result without being sent.
func CreateLeads(ctx context.Context, c Client, leads []Lead) ([]CollectionResult, error) {
	if len(leads) == 0 {
		return nil, nil
	}

	allResults := make([]CollectionResult, len(leads))

	for start := 0; start < len(leads); start += maxBatchSize {
		end := min(start+maxBatchSize, len(leads))

		var records []map[string]any
		var index []int
		for i := start; i < end; i++ {
			if err := validateLead(leads[i]); err != nil {
				allResults[i] = CollectionResult{Errors: []string{err.Error()}}
				continue
			}
			records = append(records, leads[i].Fields())
			index = append(index, i)
		}
		if len(records) == 0 {
			continue
		}

		results, err := c.InsertCollection(ctx, "Lead", records)
		if err != nil {
			return allResults[:start], eris.Wrap(err, fmt.Sprintf("sf: bulk create leads batch %d-%d", start, end))
		}
		for j, r := range results {
			if j < len(index) {
				allResults[index[j]] = r
			}
		}
	}

	return allResults, nil
}
