package dto

// AdminStats aggregates platform-wide counters for the staff dashboard.
type AdminStats struct {
	Users struct {
		Total     int64 `json:"total"`
		Creators  int64 `json:"creators"`
		Consumers int64 `json:"consumers"`
	} `json:"users"`
	Videos struct {
		Total      int64 `json:"total"`
		Active     int64 `json:"active"`
		TotalViews int64 `json:"total_views"`
	} `json:"videos"`
	Engagement struct {
		TotalRatings  int64   `json:"total_ratings"`
		TotalComments int64   `json:"total_comments"`
		AvgRating     float64 `json:"avg_rating"`
	} `json:"engagement"`
}
