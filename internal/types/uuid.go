package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex sale_01J8ZK7Q9V3M2T5X6Y7Z8A9B0C
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PURCHASE      = "pur"
	UUID_PREFIX_SALE          = "sale"
	UUID_PREFIX_TRANSACTION   = "txn"
	UUID_PREFIX_VEHICLE       = "veh"
	UUID_PREFIX_CAPITAL_ENTRY = "cae"
	UUID_PREFIX_PERSON        = "per"
	UUID_PREFIX_SUMMARY       = "inv"
	UUID_PREFIX_TX            = "tx"
)

// SequenceOrder is the id of the counter shared by purchases and sales
const SequenceOrder = "order"
