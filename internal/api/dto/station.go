package dto

type StationResponse struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ListStationsResponse struct {
	Stations []StationResponse `json:"stations"`
}
