package entities

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FacilitySummary identifies a hospital independent of any date
type FacilitySummary struct {
	ID       string `json:"hospital_id"`
	Name     string `json:"hospital_name"`
	Location string `json:"location"`
	Region   string `json:"region"`
}

// FacilityLocation is a facility with its parsed coordinates
type FacilityLocation struct {
	FacilitySummary
	Coordinates
}

// RegionCount is the number of distinct facilities in a region
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// FacilitySearchHit is a facility returned by the directory index
type FacilitySearchHit struct {
	FacilitySummary
	Coordinates
	Score int64 `json:"score"`
}
