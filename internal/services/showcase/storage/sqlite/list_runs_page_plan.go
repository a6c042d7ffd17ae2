package sqlite

import (
	"fmt"
	"strings"

	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/storage/cursor"
)

type listRunsPlanRequest struct {
	pageSize     int
	descending   bool
	filterClause string
	filterParams []any
	cursorSeq    uint64
	cursorDir    cursor.Direction
}

type listRunsPagePlan struct {
	whereClause string
	params      []any
	orderClause string
	limitClause string
}

// buildListRunsPagePlan assembles the WHERE, ORDER BY, and LIMIT pieces
// for one archive page. One extra row beyond the page size probes for a
// next page.
func buildListRunsPagePlan(req listRunsPlanRequest) listRunsPagePlan {
	var clauses []string
	var params []any

	// The cursor direction determines comparison operators; sort order is applied separately.
	if req.cursorSeq > 0 {
		if req.cursorDir == cursor.DirectionBackward {
			clauses = append(clauses, "seq < ?")
		} else {
			clauses = append(clauses, "seq > ?")
		}
		params = append(params, req.cursorSeq)
	}

	if req.filterClause != "" {
		clauses = append(clauses, req.filterClause)
		params = append(params, req.filterParams...)
	}

	whereClause := strings.Join(clauses, " AND ")
	if whereClause == "" {
		whereClause = "1 = 1"
	}

	orderClause := "ORDER BY seq ASC"
	if req.descending {
		orderClause = "ORDER BY seq DESC"
	}

	return listRunsPagePlan{
		whereClause: whereClause,
		params:      params,
		orderClause: orderClause,
		limitClause: fmt.Sprintf("LIMIT %d", req.pageSize+1),
	}
}
