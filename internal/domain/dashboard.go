package domain

// DashboardStats are the aggregate counters shown on the dashboard cards.
type DashboardStats struct {
	TotalVehicles     int `json:"total_veiculos"`
	DeliveriesToday   int `json:"entregas_hoje"`
	Efficiency        int `json:"eficiencia"`
	PendingDeliveries int `json:"entregas_pendentes"`
}

// Series is one labelled chart series.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type DashboardCharts struct {
	Mileage Series `json:"mileage"`
}
