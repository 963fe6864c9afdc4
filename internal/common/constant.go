// Package common contains constants and sentinel errors shared by the ledger
// client and the mirror server.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token.
const AccessTokenHeaderName = "access_token"

// Collection names used as the remote document collections.
const (
	CollectionExpenses = "expenses"
	CollectionIncomes  = "incomes"
)

// ValidCollection reports whether name is one of the mirrored collections.
func ValidCollection(name string) bool {
	return name == CollectionExpenses || name == CollectionIncomes
}
