package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC (the default)
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, defaultField otherwise.
// Whitelisting keeps user input out of ORDER BY clauses.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"contract_number": true,
	"start_date":      true,
	"end_date":        true,
	"status":          true,
	"total_price":     true,
}

// PaymentProofSortFields contains allowed sort fields for payment proofs
var PaymentProofSortFields = map[string]bool{
	"submitted_at": true,
	"reviewed_at":  true,
	"status":       true,
}

// AssetSortFields contains allowed sort fields for assets
var AssetSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"price":      true,
	"status":     true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
}
