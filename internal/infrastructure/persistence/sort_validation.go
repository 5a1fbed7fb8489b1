package persistence

import (
	"strings"

	"github.com/supplynet/backend/internal/domain/shared"
)

// sortColumns whitelists the columns a list query may be ordered by.
// Anything outside the whitelist falls back to creation order.
type sortColumns struct {
	table   string
	allowed map[string]bool
}

var (
	contactSort = sortColumns{table: "contacts", allowed: columnSet(
		"id", "created_at", "updated_at", "email", "country", "city", "street", "house_number")}
	networkSort = sortColumns{table: "networks", allowed: columnSet(
		"id", "created_at", "updated_at", "name", "level", "arrears", "provider_id")}
	productSort = sortColumns{table: "products", allowed: columnSet(
		"id", "created_at", "updated_at", "name", "model_name", "network_id")}
)

func columnSet(columns ...string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}

// column returns the requested column when whitelisted, created_at otherwise.
func (s sortColumns) column(requested string) string {
	requested = strings.TrimSpace(requested)
	if s.allowed[requested] {
		return requested
	}
	return "created_at"
}

// direction is DESC only when explicitly asked for.
func direction(requested string) string {
	if strings.EqualFold(strings.TrimSpace(requested), "desc") {
		return "DESC"
	}
	return "ASC"
}

// order renders the ORDER BY for filter. The primary key always closes the
// clause so pages stay stable between requests.
func (s sortColumns) order(filter shared.Filter) string {
	column := s.column(filter.OrderBy)
	dir := direction(filter.OrderDir)
	clause := s.table + "." + column + " " + dir
	if column != "id" {
		clause += ", " + s.table + ".id " + dir
	}
	return clause
}
