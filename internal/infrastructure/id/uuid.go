package id

import (
	"strings"

	"github.com/google/uuid"
)

const orderPrefix = "order-"

// UUIDGenerator issues order ids of the form order-<12 hex chars>.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderPrefix + hex[:12]
}
