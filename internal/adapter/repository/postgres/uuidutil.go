package postgres

import (
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

func sortedUUIDs(ids []uuid.UUID) []uuid.UUID {
	out := lo.Map(ids, func(id uuid.UUID, _ int) uuid.UUID { return id })
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	return lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
}
