package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

// Column names the engine cannot operate without
const (
	ColumnHospitalID   = "hospital_id"
	ColumnHospitalName = "hospital_name"
	ColumnDate         = "date"
	ColumnBedCapacity  = "bed_capacity"
	ColumnLocation     = "location"
	ColumnRegion       = "region"
)

// RequiredColumns must all be present after the location backfill
var RequiredColumns = []string{
	ColumnHospitalID,
	ColumnHospitalName,
	ColumnDate,
	ColumnBedCapacity,
	ColumnLocation,
}

// Column categories used by the column catalog
const (
	CategoryIdentification = "Identification"
	CategoryBedCapacity    = "Bed Capacity"
	CategoryEquipment      = "Equipment"
	CategoryPatients       = "Patients"
	CategoryStaff          = "Staff"
	CategorySupplies       = "Supplies"
	CategoryTransportation = "Transportation"
	CategoryInfectious     = "Infectious Cases"
	CategoryOther          = "Other"
)

var categoryOrder = []string{
	CategoryIdentification,
	CategoryBedCapacity,
	CategoryEquipment,
	CategoryPatients,
	CategoryStaff,
	CategorySupplies,
	CategoryTransportation,
	CategoryInfectious,
	CategoryOther,
}

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindFloat
)

func (k columnKind) String() string {
	switch k {
	case kindInt:
		return "integer"
	case kindFloat:
		return "number"
	default:
		return "string"
	}
}

// columnSpec binds a canonical column to its typed field on MetricsRecord
type columnSpec struct {
	name     string
	category string
	kind     columnKind
	get      func(r *entities.MetricsRecord) interface{}
	set      func(r *entities.MetricsRecord, cell string) error
}

func stringColumn(name, category string, field func(r *entities.MetricsRecord) *string) columnSpec {
	return columnSpec{
		name:     name,
		category: category,
		kind:     kindString,
		get:      func(r *entities.MetricsRecord) interface{} { return *field(r) },
		set: func(r *entities.MetricsRecord, cell string) error {
			*field(r) = strings.TrimSpace(cell)
			return nil
		},
	}
}

func intColumn(name, category string, field func(r *entities.MetricsRecord) *int) columnSpec {
	return columnSpec{
		name:     name,
		category: category,
		kind:     kindInt,
		get:      func(r *entities.MetricsRecord) interface{} { return *field(r) },
		set: func(r *entities.MetricsRecord, cell string) error {
			v, err := parseIntCell(cell)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
	}
}

func floatColumn(name, category string, field func(r *entities.MetricsRecord) *float64) columnSpec {
	return columnSpec{
		name:     name,
		category: category,
		kind:     kindFloat,
		get:      func(r *entities.MetricsRecord) interface{} { return *field(r) },
		set: func(r *entities.MetricsRecord, cell string) error {
			v, err := parseFloatCell(cell)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
	}
}

func burnoutColumn(name, category string) columnSpec {
	return columnSpec{
		name:     name,
		category: category,
		kind:     kindString,
		get:      func(r *entities.MetricsRecord) interface{} { return string(r.BurnoutRiskScore) },
		set: func(r *entities.MetricsRecord, cell string) error {
			r.BurnoutRiskScore = entities.BurnoutRisk(strings.ToLower(strings.TrimSpace(cell)))
			return nil
		},
	}
}

// canonicalColumns lists the known columns in their documented order
var canonicalColumns = []columnSpec{
	stringColumn("date", CategoryIdentification, func(r *entities.MetricsRecord) *string { return &r.Date }),
	stringColumn("hospital_id", CategoryIdentification, func(r *entities.MetricsRecord) *string { return &r.HospitalID }),
	stringColumn("hospital_name", CategoryIdentification, func(r *entities.MetricsRecord) *string { return &r.HospitalName }),
	stringColumn("region", CategoryIdentification, func(r *entities.MetricsRecord) *string { return &r.Region }),
	stringColumn("location", CategoryIdentification, func(r *entities.MetricsRecord) *string { return &r.Location }),

	intColumn("bed_capacity", CategoryBedCapacity, func(r *entities.MetricsRecord) *int { return &r.BedCapacity }),
	intColumn("beds_occupied", CategoryBedCapacity, func(r *entities.MetricsRecord) *int { return &r.BedsOccupied }),
	intColumn("beds_available", CategoryBedCapacity, func(r *entities.MetricsRecord) *int { return &r.BedsAvailable }),
	intColumn("icu_beds_total", CategoryBedCapacity, func(r *entities.MetricsRecord) *int { return &r.ICUBedsTotal }),
	intColumn("icu_beds_occupied", CategoryBedCapacity, func(r *entities.MetricsRecord) *int { return &r.ICUBedsOccupied }),

	intColumn("ventilators_total", CategoryEquipment, func(r *entities.MetricsRecord) *int { return &r.VentilatorsTotal }),
	intColumn("ventilators_in_use", CategoryEquipment, func(r *entities.MetricsRecord) *int { return &r.VentilatorsInUse }),
	intColumn("ventilators_available", CategoryEquipment, func(r *entities.MetricsRecord) *int { return &r.VentilatorsAvailable }),
	intColumn("equipment_xray_functional", CategoryEquipment, func(r *entities.MetricsRecord) *int { return &r.EquipmentXrayFunctional }),
	intColumn("equipment_ct_scan_functional", CategoryEquipment, func(r *entities.MetricsRecord) *int { return &r.EquipmentCTScanFunctional }),
	intColumn("equipment_mri_functional", CategoryEquipment, func(r *entities.MetricsRecord) *int { return &r.EquipmentMRIFunctional }),

	intColumn("patient_admissions", CategoryPatients, func(r *entities.MetricsRecord) *int { return &r.PatientAdmissions }),
	intColumn("patient_discharges", CategoryPatients, func(r *entities.MetricsRecord) *int { return &r.PatientDischarges }),
	intColumn("emergency_visits", CategoryPatients, func(r *entities.MetricsRecord) *int { return &r.EmergencyVisits }),
	intColumn("surgery_count", CategoryPatients, func(r *entities.MetricsRecord) *int { return &r.SurgeryCount }),
	floatColumn("avg_wait_time_minutes", CategoryPatients, func(r *entities.MetricsRecord) *float64 { return &r.AvgWaitTimeMinutes }),
	floatColumn("avg_patient_satisfaction", CategoryPatients, func(r *entities.MetricsRecord) *float64 { return &r.AvgPatientSatisfaction }),

	intColumn("doctors_total", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.DoctorsTotal }),
	intColumn("doctors_available", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.DoctorsAvailable }),
	intColumn("nurses_total", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.NursesTotal }),
	intColumn("nurses_available", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.NursesAvailable }),
	intColumn("paramedics_total", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.ParamedicsTotal }),
	intColumn("paramedics_available", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.ParamedicsAvailable }),
	floatColumn("staff_overtime_hours", CategoryStaff, func(r *entities.MetricsRecord) *float64 { return &r.StaffOvertimeHours }),
	intColumn("staff_sick_leave", CategoryStaff, func(r *entities.MetricsRecord) *int { return &r.StaffSickLeave }),
	burnoutColumn("burnout_risk_score", CategoryStaff),

	intColumn("supply_masks", CategorySupplies, func(r *entities.MetricsRecord) *int { return &r.SupplyMasks }),
	intColumn("supply_gloves", CategorySupplies, func(r *entities.MetricsRecord) *int { return &r.SupplyGloves }),
	intColumn("supply_sanitizer", CategorySupplies, func(r *entities.MetricsRecord) *int { return &r.SupplySanitizer }),
	floatColumn("supply_medicines_stock_level", CategorySupplies, func(r *entities.MetricsRecord) *float64 { return &r.SupplyMedicinesStockLevel }),

	intColumn("ambulances_total", CategoryTransportation, func(r *entities.MetricsRecord) *int { return &r.AmbulancesTotal }),
	intColumn("ambulances_available", CategoryTransportation, func(r *entities.MetricsRecord) *int { return &r.AmbulancesAvailable }),
	floatColumn("transport_cost_per_km", CategoryTransportation, func(r *entities.MetricsRecord) *float64 { return &r.TransportCostPerKm }),

	intColumn("covid_cases", CategoryInfectious, func(r *entities.MetricsRecord) *int { return &r.CovidCases }),
	intColumn("flu_cases", CategoryInfectious, func(r *entities.MetricsRecord) *int { return &r.FluCases }),
	intColumn("other_infectious_cases", CategoryInfectious, func(r *entities.MetricsRecord) *int { return &r.OtherInfectiousCases }),
}

var columnsByName = func() map[string]*columnSpec {
	m := make(map[string]*columnSpec, len(canonicalColumns))
	for i := range canonicalColumns {
		m[canonicalColumns[i].name] = &canonicalColumns[i]
	}
	return m
}()

// CanonicalColumnNames returns the known column names in documented order
func CanonicalColumnNames() []string {
	names := make([]string, len(canonicalColumns))
	for i, c := range canonicalColumns {
		names[i] = c.name
	}
	return names
}

// Empty numeric cells read as zero.
// Integral floats ("250.0") are accepted since spreadsheet exports often write them.
func parseIntCell(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(cell); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, fmt.Errorf("%q is not an integer", cell)
	}
	return int(f), nil
}

func parseFloatCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", cell)
	}
	// NaN and Inf parse but cannot be encoded as JSON
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", cell)
	}
	return f, nil
}
