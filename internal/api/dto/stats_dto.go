package dto

import "github.com/spec-kit/order-desk/internal/domain"

// DistributionResponse is a status/priority breakdown plus its total.
type DistributionResponse struct {
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

// NewDistributionResponse sums a counts map into the response shape.
func NewDistributionResponse[K ~string](counts map[K]int64) DistributionResponse {
	resp := DistributionResponse{Counts: make(map[string]int64, len(counts))}
	for key, count := range counts {
		resp.Counts[string(key)] = count
		resp.Total += count
	}
	return resp
}

// TopCustomersResponse ranks customers by activity.
type TopCustomersResponse struct {
	Customers []domain.CustomerActivity `json:"customers"`
}

// CategoryCountsResponse lists per-category ticket counts.
type CategoryCountsResponse struct {
	Categories []domain.CategoryCount `json:"categories"`
}
