package cache

import (
	"fmt"
	"time"
)

const (
	SummaryCachePrefix = "commission_summary:"
	SummaryCacheTTL    = 24 * time.Hour
)

func SummaryKey(id int64) string {
	return fmt.Sprintf("%s%d", SummaryCachePrefix, id)
}

func SummaryKeys(ids []int64) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, SummaryKey(id))
	}
	return keys
}
