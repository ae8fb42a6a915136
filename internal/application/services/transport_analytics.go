package services

import (
	"context"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

// averageAmbulanceSpeedKmh is the urban ambulance speed used for travel time estimates
const averageAmbulanceSpeedKmh = 40.0

// CompareFacilities puts the key metrics of two facilities on the same date side by side
func (s *HospitalDataService) CompareFacilities(ctx context.Context, first, second, date string) (*entities.FacilityComparison, error) {
	a, b, err := s.resolvePair(first, second)
	if err != nil {
		return nil, err
	}

	date = strings.TrimSpace(date)
	rowA, ok := s.table.rowOn(a.ID, date)
	if !ok {
		return nil, noDataOn(a.Name, date)
	}
	rowB, ok := s.table.rowOn(b.ID, date)
	if !ok {
		return nil, noDataOn(b.Name, date)
	}

	return &entities.FacilityComparison{
		Date:   date,
		First:  snapshot(&s.table.records[rowA]),
		Second: snapshot(&s.table.records[rowB]),
	}, nil
}

// TravelCost prices an ambulance transfer between two facilities using each side's per-km rate on date
func (s *HospitalDataService) TravelCost(ctx context.Context, from, to, date string) (*entities.TravelCostEstimate, error) {
	a, b, err := s.resolvePair(from, to)
	if err != nil {
		return nil, err
	}

	date = strings.TrimSpace(date)
	rowA, ok := s.table.rowOn(a.ID, date)
	if !ok {
		return nil, noDataOn(a.Name, date)
	}
	rowB, ok := s.table.rowOn(b.ID, date)
	if !ok {
		return nil, noDataOn(b.Name, date)
	}

	dist, err := distanceBetween(a, b)
	if err != nil {
		return nil, err
	}

	legA := transportLeg(&s.table.records[rowA], dist.DistanceKm)
	legB := transportLeg(&s.table.records[rowB], dist.DistanceKm)

	estimate := &entities.TravelCostEstimate{
		Date:                   date,
		DistanceKm:             dist.DistanceKm,
		EstimatedTravelMinutes: round2(dist.DistanceKm / averageAmbulanceSpeedKmh * 60),
		From:                   legA,
		To:                     legB,
		AverageCost:            round2((legA.TotalCost + legB.TotalCost) / 2),
	}
	switch {
	case legA.TotalCost < legB.TotalCost:
		estimate.CheaperOrigin = legA.HospitalName
	case legB.TotalCost < legA.TotalCost:
		estimate.CheaperOrigin = legB.HospitalName
	}
	return estimate, nil
}

func (s *HospitalDataService) resolvePair(first, second string) (entities.FacilitySummary, entities.FacilitySummary, error) {
	a, errA := s.resolve(first)
	b, errB := s.resolve(second)
	if err := joinNotFound(errA, errB); err != nil {
		return entities.FacilitySummary{}, entities.FacilitySummary{}, err
	}
	return a, b, nil
}

func snapshot(r *entities.MetricsRecord) entities.FacilitySnapshot {
	bed := utilization(r.BedsOccupied, r.BedCapacity)
	return entities.FacilitySnapshot{
		HospitalName:           r.HospitalName,
		HospitalID:             r.HospitalID,
		BedCapacity:            r.BedCapacity,
		BedsOccupied:           r.BedsOccupied,
		BedUtilization:         round2(bed),
		ICUBedsTotal:           r.ICUBedsTotal,
		ICUBedsOccupied:        r.ICUBedsOccupied,
		ICUUtilization:         round2(utilization(r.ICUBedsOccupied, r.ICUBedsTotal)),
		VentilatorsAvailable:   r.VentilatorsAvailable,
		VentilatorUtilization:  round2(utilization(r.VentilatorsInUse, r.VentilatorsTotal)),
		DoctorsAvailable:       r.DoctorsAvailable,
		DoctorsTotal:           r.DoctorsTotal,
		NursesAvailable:        r.NursesAvailable,
		NursesTotal:            r.NursesTotal,
		EmergencyVisits:        r.EmergencyVisits,
		AvgWaitTimeMinutes:     r.AvgWaitTimeMinutes,
		AvgPatientSatisfaction: r.AvgPatientSatisfaction,
		BurnoutRiskScore:       r.BurnoutRiskScore,
		CapacityStatus:         capacityStatus(bed),
	}
}

func transportLeg(r *entities.MetricsRecord, distanceKm float64) entities.TransportLeg {
	return entities.TransportLeg{
		HospitalName:        r.HospitalName,
		CostPerKm:           r.TransportCostPerKm,
		TotalCost:           round2(distanceKm * r.TransportCostPerKm),
		AmbulancesAvailable: r.AmbulancesAvailable,
		AmbulancesTotal:     r.AmbulancesTotal,
	}
}
