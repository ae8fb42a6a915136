package entities

// BurnoutRisk is the categorical staffing-stress indicator
type BurnoutRisk string

const (
	BurnoutRiskLow      BurnoutRisk = "low"
	BurnoutRiskMedium   BurnoutRisk = "medium"
	BurnoutRiskHigh     BurnoutRisk = "high"
	BurnoutRiskCritical BurnoutRisk = "critical"
)

// MetricsRecord is one row of the hospital metrics table: a facility on a date
type MetricsRecord struct {
	// Identification
	Date         string `json:"date"`
	HospitalID   string `json:"hospital_id"`
	HospitalName string `json:"hospital_name"`
	Region       string `json:"region"`
	Location     string `json:"location"`

	// Bed capacity
	BedCapacity     int `json:"bed_capacity"`
	BedsOccupied    int `json:"beds_occupied"`
	BedsAvailable   int `json:"beds_available"`
	ICUBedsTotal    int `json:"icu_beds_total"`
	ICUBedsOccupied int `json:"icu_beds_occupied"`

	// Equipment
	VentilatorsTotal          int `json:"ventilators_total"`
	VentilatorsInUse          int `json:"ventilators_in_use"`
	VentilatorsAvailable      int `json:"ventilators_available"`
	EquipmentXrayFunctional   int `json:"equipment_xray_functional"`
	EquipmentCTScanFunctional int `json:"equipment_ct_scan_functional"`
	EquipmentMRIFunctional    int `json:"equipment_mri_functional"`

	// Patient activity
	PatientAdmissions      int     `json:"patient_admissions"`
	PatientDischarges      int     `json:"patient_discharges"`
	EmergencyVisits        int     `json:"emergency_visits"`
	SurgeryCount           int     `json:"surgery_count"`
	AvgWaitTimeMinutes     float64 `json:"avg_wait_time_minutes"`
	AvgPatientSatisfaction float64 `json:"avg_patient_satisfaction"`

	// Staff
	DoctorsTotal        int         `json:"doctors_total"`
	DoctorsAvailable    int         `json:"doctors_available"`
	NursesTotal         int         `json:"nurses_total"`
	NursesAvailable     int         `json:"nurses_available"`
	ParamedicsTotal     int         `json:"paramedics_total"`
	ParamedicsAvailable int         `json:"paramedics_available"`
	StaffOvertimeHours  float64     `json:"staff_overtime_hours"`
	StaffSickLeave      int         `json:"staff_sick_leave"`
	BurnoutRiskScore    BurnoutRisk `json:"burnout_risk_score"`

	// Supplies
	SupplyMasks               int     `json:"supply_masks"`
	SupplyGloves              int     `json:"supply_gloves"`
	SupplySanitizer           int     `json:"supply_sanitizer"`
	SupplyMedicinesStockLevel float64 `json:"supply_medicines_stock_level"`

	// Transportation
	AmbulancesTotal     int     `json:"ambulances_total"`
	AmbulancesAvailable int     `json:"ambulances_available"`
	TransportCostPerKm  float64 `json:"transport_cost_per_km"`

	// Infectious cases
	CovidCases           int `json:"covid_cases"`
	FluCases             int `json:"flu_cases"`
	OtherInfectiousCases int `json:"other_infectious_cases"`

	// Extra holds columns outside the canonical schema, keyed by header name
	Extra map[string]string `json:"-"`
}

// RawTable is the untyped form of the metrics table as read from, and written to, its source
type RawTable struct {
	Header []string
	Rows   [][]string
}

// HasColumn reports whether the header contains name
func (t *RawTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of name in the header, or -1
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}
