package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

// Utilization thresholds in percent
const (
	criticalUtilization = 90.0
	highUtilization     = 80.0

	// slope beyond which a trend is no longer Stable, in percentage points per row
	trendSlopeThreshold = 0.5
)

// CapacityTrend summarises bed and ICU utilization of a facility across its rows
func (s *HospitalDataService) CapacityTrend(ctx context.Context, name string) (*entities.CapacityTrend, error) {
	f, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	rows := s.table.rowsByID[f.ID]
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("No capacity data found for hospital '%s'.", f.Name))
	}

	trend := &entities.CapacityTrend{
		HospitalName: f.Name,
		HospitalID:   f.ID,
		DataPoints:   len(rows),
		Series:       make([]entities.UtilizationPoint, 0, len(rows)),
	}

	bed := make([]float64, 0, len(rows))
	icu := make([]float64, 0, len(rows))
	burnout := make([]entities.BurnoutRisk, 0, len(rows))
	for _, rowIdx := range rows {
		r := &s.table.records[rowIdx]
		b := utilization(r.BedsOccupied, r.BedCapacity)
		i := utilization(r.ICUBedsOccupied, r.ICUBedsTotal)
		bed = append(bed, b)
		icu = append(icu, i)
		burnout = append(burnout, r.BurnoutRiskScore)

		trend.Series = append(trend.Series, entities.UtilizationPoint{
			Date:           r.Date,
			BedUtilization: round2(b),
			ICUUtilization: round2(i),
		})

		trend.TotalAdmissions += r.PatientAdmissions
		trend.TotalDischarges += r.PatientDischarges
		trend.TotalEmergencyVisits += r.EmergencyVisits

		switch capacityStatus(b) {
		case entities.CapacityCritical:
			trend.CriticalCapacityDays++
		case entities.CapacityHigh:
			trend.HighCapacityDays++
		}
	}

	bedStats := summarize(bed)
	trend.AvgBedUtilization = round2(bedStats.mean)
	trend.MaxBedUtilization = round2(bedStats.max)
	trend.MaxBedDate = trend.Series[bedStats.maxIdx].Date
	trend.MinBedUtilization = round2(bedStats.min)
	trend.MinBedDate = trend.Series[bedStats.minIdx].Date
	trend.BedTrendSlope = round2(bedStats.slope)
	trend.BedTrend = classifyTrend(bedStats.slope)

	icuStats := summarize(icu)
	trend.AvgICUUtilization = round2(icuStats.mean)
	trend.MaxICUUtilization = round2(icuStats.max)
	trend.MaxICUDate = trend.Series[icuStats.maxIdx].Date
	trend.MinICUUtilization = round2(icuStats.min)
	trend.MinICUDate = trend.Series[icuStats.minIdx].Date
	trend.ICUTrendSlope = round2(icuStats.slope)
	trend.ICUTrend = classifyTrend(icuStats.slope)

	trend.AvgDailyAdmissions = round2(float64(trend.TotalAdmissions) / float64(len(rows)))
	trend.ModalBurnoutRisk = modalBurnout(burnout)

	return trend, nil
}

// SystemStatistics aggregates every facility reporting on date
func (s *HospitalDataService) SystemStatistics(ctx context.Context, date string) (*entities.SystemStatistics, error) {
	date = strings.TrimSpace(date)
	stats := &entities.SystemStatistics{
		Date:                  date,
		CriticalHospitals:     []string{},
		HighCapacityHospitals: []string{},
		HighBurnoutHospitals:  []string{},
	}

	for i := range s.table.records {
		r := &s.table.records[i]
		if r.Date != date {
			continue
		}
		stats.TotalHospitals++

		stats.TotalBedCapacity += r.BedCapacity
		stats.TotalBedsOccupied += r.BedsOccupied
		stats.TotalICUBeds += r.ICUBedsTotal
		stats.TotalICUOccupied += r.ICUBedsOccupied
		stats.TotalVentilators += r.VentilatorsTotal
		stats.VentilatorsInUse += r.VentilatorsInUse
		stats.VentilatorsAvailable += r.VentilatorsAvailable

		stats.TotalDoctors += r.DoctorsTotal
		stats.DoctorsAvailable += r.DoctorsAvailable
		stats.TotalNurses += r.NursesTotal
		stats.NursesAvailable += r.NursesAvailable
		stats.TotalParamedics += r.ParamedicsTotal
		stats.ParamedicsAvailable += r.ParamedicsAvailable

		stats.TotalAdmissions += r.PatientAdmissions
		stats.TotalDischarges += r.PatientDischarges
		stats.TotalEmergencyVisits += r.EmergencyVisits
		stats.TotalSurgeries += r.SurgeryCount

		stats.TotalCovidCases += r.CovidCases
		stats.TotalFluCases += r.FluCases
		stats.TotalOtherInfectious += r.OtherInfectiousCases

		switch capacityStatus(utilization(r.BedsOccupied, r.BedCapacity)) {
		case entities.CapacityCritical:
			stats.CriticalHospitals = append(stats.CriticalHospitals, r.HospitalName)
		case entities.CapacityHigh:
			stats.HighCapacityHospitals = append(stats.HighCapacityHospitals, r.HospitalName)
		}
		if r.BurnoutRiskScore == entities.BurnoutRiskCritical {
			stats.HighBurnoutHospitals = append(stats.HighBurnoutHospitals, r.HospitalName)
		}
	}

	if stats.TotalHospitals == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("No data found for date '%s'.", date))
	}

	stats.SystemBedUtilization = round2(utilization(stats.TotalBedsOccupied, stats.TotalBedCapacity))
	stats.ICUUtilization = round2(utilization(stats.TotalICUOccupied, stats.TotalICUBeds))
	stats.VentilatorUtilization = round2(utilization(stats.VentilatorsInUse, stats.TotalVentilators))
	return stats, nil
}

// utilization is occupied/total as a percentage; a zero total reads as 0%.
// Values above 100 are reported unchanged.
func utilization(occupied, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(occupied) / float64(total) * 100
}

func capacityStatus(pct float64) entities.CapacityStatus {
	switch {
	case pct > criticalUtilization:
		return entities.CapacityCritical
	case pct > highUtilization:
		return entities.CapacityHigh
	default:
		return entities.CapacityNormal
	}
}

func classifyTrend(slope float64) entities.TrendDirection {
	switch {
	case slope > trendSlopeThreshold:
		return entities.TrendIncreasing
	case slope < -trendSlopeThreshold:
		return entities.TrendDecreasing
	default:
		return entities.TrendStable
	}
}

type seriesStats struct {
	mean, min, max float64
	minIdx, maxIdx int
	slope          float64
}

// summarize computes mean, first-seen extremes and the least-squares slope against the row index.
// ys must not be empty.
func summarize(ys []float64) seriesStats {
	st := seriesStats{min: ys[0], max: ys[0]}

	var sum float64
	for i, y := range ys {
		sum += y
		if y > st.max {
			st.max, st.maxIdx = y, i
		}
		if y < st.min {
			st.min, st.minIdx = y, i
		}
	}
	n := float64(len(ys))
	st.mean = sum / n

	xMean := (n - 1) / 2
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - st.mean)
		den += dx * dx
	}
	if den != 0 {
		st.slope = num / den
	}
	return st
}

// modalBurnout returns the most frequent non-empty category; ties go to the
// lexicographically smallest value
func modalBurnout(values []entities.BurnoutRisk) entities.BurnoutRisk {
	counts := make(map[entities.BurnoutRisk]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}

	var (
		mode entities.BurnoutRisk
		best int
	)
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode
}
