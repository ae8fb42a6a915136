package entities

// TrendDirection classifies the least-squares slope of a utilization series
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "Increasing"
	TrendDecreasing TrendDirection = "Decreasing"
	TrendStable     TrendDirection = "Stable"
)

// CapacityStatus buckets a single utilization reading
type CapacityStatus string

const (
	CapacityNormal   CapacityStatus = "Normal"
	CapacityHigh     CapacityStatus = "High"
	CapacityCritical CapacityStatus = "Critical"
)

// DistanceResult is the great-circle distance between two facilities
type DistanceResult struct {
	FromHospital    string      `json:"from_hospital"`
	FromHospitalID  string      `json:"from_hospital_id"`
	ToHospital      string      `json:"to_hospital"`
	ToHospitalID    string      `json:"to_hospital_id"`
	DistanceKm      float64     `json:"distance_km"`
	FromCoordinates Coordinates `json:"from_coordinates"`
	ToCoordinates   Coordinates `json:"to_coordinates"`
}

// DistanceMatrix holds every unordered facility pair
type DistanceMatrix struct {
	TotalPairs int              `json:"total_pairs"`
	Distances  []DistanceResult `json:"distances"`
}

// NearestFacility is the closest other facility to a reference facility
type NearestFacility struct {
	ReferenceHospital string  `json:"reference_hospital"`
	NearestHospital   string  `json:"nearest_hospital"`
	NearestHospitalID string  `json:"nearest_hospital_id"`
	DistanceKm        float64 `json:"distance_km"`
}

// UtilizationPoint is one dated utilization reading
type UtilizationPoint struct {
	Date           string  `json:"date"`
	BedUtilization float64 `json:"bed_utilization"`
	ICUUtilization float64 `json:"icu_utilization"`
}

// CapacityTrend summarises a facility's utilization across all dates
type CapacityTrend struct {
	HospitalName string             `json:"hospital_name"`
	HospitalID   string             `json:"hospital_id"`
	DataPoints   int                `json:"data_points"`
	Series       []UtilizationPoint `json:"series"`

	AvgBedUtilization float64        `json:"avg_bed_utilization"`
	MaxBedUtilization float64        `json:"max_bed_utilization"`
	MaxBedDate        string         `json:"max_bed_date"`
	MinBedUtilization float64        `json:"min_bed_utilization"`
	MinBedDate        string         `json:"min_bed_date"`
	BedTrendSlope     float64        `json:"bed_trend_slope"`
	BedTrend          TrendDirection `json:"bed_trend"`

	AvgICUUtilization float64        `json:"avg_icu_utilization"`
	MaxICUUtilization float64        `json:"max_icu_utilization"`
	MaxICUDate        string         `json:"max_icu_date"`
	MinICUUtilization float64        `json:"min_icu_utilization"`
	MinICUDate        string         `json:"min_icu_date"`
	ICUTrendSlope     float64        `json:"icu_trend_slope"`
	ICUTrend          TrendDirection `json:"icu_trend"`

	TotalAdmissions      int     `json:"total_admissions"`
	TotalDischarges      int     `json:"total_discharges"`
	TotalEmergencyVisits int     `json:"total_emergency_visits"`
	AvgDailyAdmissions   float64 `json:"avg_daily_admissions"`

	CriticalCapacityDays int         `json:"critical_capacity_days"`
	HighCapacityDays     int         `json:"high_capacity_days"`
	ModalBurnoutRisk     BurnoutRisk `json:"modal_burnout_risk"`
}

// SystemStatistics aggregates every facility reporting on a date
type SystemStatistics struct {
	Date           string `json:"date"`
	TotalHospitals int    `json:"total_hospitals"`

	TotalBedCapacity      int     `json:"total_bed_capacity"`
	TotalBedsOccupied     int     `json:"total_beds_occupied"`
	SystemBedUtilization  float64 `json:"system_bed_utilization"`
	TotalICUBeds          int     `json:"total_icu_beds"`
	TotalICUOccupied      int     `json:"total_icu_occupied"`
	ICUUtilization        float64 `json:"icu_utilization"`
	TotalVentilators      int     `json:"total_ventilators"`
	VentilatorsInUse      int     `json:"ventilators_in_use"`
	VentilatorsAvailable  int     `json:"ventilators_available"`
	VentilatorUtilization float64 `json:"ventilator_utilization"`

	TotalDoctors        int `json:"total_doctors"`
	DoctorsAvailable    int `json:"doctors_available"`
	TotalNurses         int `json:"total_nurses"`
	NursesAvailable     int `json:"nurses_available"`
	TotalParamedics     int `json:"total_paramedics"`
	ParamedicsAvailable int `json:"paramedics_available"`

	TotalAdmissions      int `json:"total_admissions"`
	TotalDischarges      int `json:"total_discharges"`
	TotalEmergencyVisits int `json:"total_emergency_visits"`
	TotalSurgeries       int `json:"total_surgeries"`

	TotalCovidCases      int `json:"total_covid_cases"`
	TotalFluCases        int `json:"total_flu_cases"`
	TotalOtherInfectious int `json:"total_other_infectious"`

	CriticalHospitals     []string `json:"critical_hospitals"`
	HighCapacityHospitals []string `json:"high_capacity_hospitals"`
	HighBurnoutHospitals  []string `json:"high_burnout_hospitals"`
}

// DateRange describes the dates present in the table
type DateRange struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	TotalDays int      `json:"total_days"`
	AllDates  []string `json:"all_dates"`
}

// ColumnValue is a single cell of a facility on a date
type ColumnValue struct {
	HospitalName string        `json:"hospital_name"`
	Column       string        `json:"column"`
	Date         string        `json:"date,omitempty"`
	Value        interface{}   `json:"value,omitempty"`
	Values       []SeriesPoint `json:"values,omitempty"`
}

// SeriesPoint is one (date, value) pair of a column time series
type SeriesPoint struct {
	Date  string      `json:"date"`
	Value interface{} `json:"value"`
}

// ColumnCategory groups column names for discovery
type ColumnCategory struct {
	Category string   `json:"category"`
	Columns  []string `json:"columns"`
}

// ColumnCatalog lists every column, grouped by category
type ColumnCatalog struct {
	TotalColumns int              `json:"total_columns"`
	Categories   []ColumnCategory `json:"categories"`
}

// FacilitySnapshot is the comparison view of one facility on a date
type FacilitySnapshot struct {
	HospitalName           string         `json:"hospital_name"`
	HospitalID             string         `json:"hospital_id"`
	BedCapacity            int            `json:"bed_capacity"`
	BedsOccupied           int            `json:"beds_occupied"`
	BedUtilization         float64        `json:"bed_utilization"`
	ICUBedsTotal           int            `json:"icu_beds_total"`
	ICUBedsOccupied        int            `json:"icu_beds_occupied"`
	ICUUtilization         float64        `json:"icu_utilization"`
	VentilatorsAvailable   int            `json:"ventilators_available"`
	VentilatorUtilization  float64        `json:"ventilator_utilization"`
	DoctorsAvailable       int            `json:"doctors_available"`
	DoctorsTotal           int            `json:"doctors_total"`
	NursesAvailable        int            `json:"nurses_available"`
	NursesTotal            int            `json:"nurses_total"`
	EmergencyVisits        int            `json:"emergency_visits"`
	AvgWaitTimeMinutes     float64        `json:"avg_wait_time_minutes"`
	AvgPatientSatisfaction float64        `json:"avg_patient_satisfaction"`
	BurnoutRiskScore       BurnoutRisk    `json:"burnout_risk_score"`
	CapacityStatus         CapacityStatus `json:"capacity_status"`
}

// FacilityComparison is two facilities side by side on one date
type FacilityComparison struct {
	Date   string           `json:"date"`
	First  FacilitySnapshot `json:"first"`
	Second FacilitySnapshot `json:"second"`
}

// TransportLeg is the cost of moving a patient from one side of a route
type TransportLeg struct {
	HospitalName        string  `json:"hospital_name"`
	CostPerKm           float64 `json:"cost_per_km"`
	TotalCost           float64 `json:"total_cost"`
	AmbulancesAvailable int     `json:"ambulances_available"`
	AmbulancesTotal     int     `json:"ambulances_total"`
}

// TravelCostEstimate prices an ambulance transfer between two facilities
type TravelCostEstimate struct {
	Date                   string       `json:"date"`
	DistanceKm             float64      `json:"distance_km"`
	EstimatedTravelMinutes float64      `json:"estimated_travel_minutes"`
	From                   TransportLeg `json:"from"`
	To                     TransportLeg `json:"to"`
	AverageCost            float64      `json:"average_cost"`
	// CheaperOrigin is empty when both legs cost the same
	CheaperOrigin string `json:"cheaper_origin,omitempty"`
}
