package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseComparisonsSelect = `SELECT id, search_query, run_at,
	total_products, matched_products, location, products
FROM comparisons`

const countComparisonsSelect = "SELECT COUNT(*) FROM comparisons"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a
// comparison history query. It returns two SQL strings (one for the data
// query, one for the count query) and the positional parameters.
func (q *ComparisonQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.SearchQuery != nil {
		conditions = append(conditions, fmt.Sprintf("search_query = $%d", paramIdx))
		args = append(args, *q.SearchQuery)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("run_at >= $%d", paramIdx))
		args = append(args, *q.Since)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY run_at DESC LIMIT %d OFFSET %d",
		baseComparisonsSelect, whereClause, limit, offset,
	)

	countSQL = countComparisonsSelect + whereClause

	return dataSQL, countSQL, args
}
