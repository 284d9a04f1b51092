package calculator

import (
	"sales-ams/pkg/aggregate"
	"sales-ams/pkg/models"
)

// SummarizeAMS totalise FinalAMS par dimensions (ex. Product, ou Product × Region × CustomerType).
func SummarizeAMS(results []models.AMSResult, dims ...models.Dimension) []models.GroupTotal {
	return aggregate.Group(results, func(r models.AMSResult) (models.DimensionKey, float64) {
		return r.Key, r.FinalAMS
	}, dims...)
}

// SummarizeTargets totalise TargetQty par dimensions.
func SummarizeTargets(results []models.TargetResult, dims ...models.Dimension) []models.GroupTotal {
	return aggregate.Group(results, func(r models.TargetResult) (models.DimensionKey, float64) {
		return r.Key, r.TargetQty
	}, dims...)
}
