package rating

import (
	"math"

	"github.com/roach88/quotedraft/internal/assessment"
)

// Cost defaults, shared with the server-side calculation. Money amounts
// are in currency units; Estimate reports in units of 10,000.
const (
	DefaultTravelCostPerMonth   = 10800.0
	DefaultMaintenanceDailyCost = 1600.0
	WorkDaysPerMonth            = 21.5

	priceUnit = 10000.0
)

// WorkloadSummary totals one workload table.
type WorkloadSummary struct {
	Days float64 `json:"days"`
	Cost float64 `json:"cost"`
}

// WorkloadCost totals role-days and labor cost for a workload table.
//
// For each row, role-days are summed over the configured roles and scaled
// by the delivery factor. Cost additionally multiplies by each role's unit
// price, the rating factor, and the row's scope and tech factors. Missing
// or zero factors count as 1.
func WorkloadCost(rows []assessment.WorkloadRecord, roles []Role, factor float64) WorkloadSummary {
	var sum WorkloadSummary
	for _, row := range rows {
		days, labor := 0.0, 0.0
		for _, role := range roles {
			d := row.RoleDays[role.Name]
			days += d
			labor += d * (role.UnitPrice / priceUnit)
		}
		delivery := factorOrOne(row.DeliveryFactor)
		sum.Days += days * delivery
		sum.Cost += labor * delivery * factor * factorOrOne(row.ScopeFactor) * factorOrOne(row.TechFactor)
	}
	return sum
}

// Estimate is the full cost breakdown of an assessment.
type Estimate struct {
	Rating            Summary         `json:"rating"`
	Development       WorkloadSummary `json:"development"`
	Integration       WorkloadSummary `json:"integration"`
	TravelCost        float64         `json:"travel_cost"`
	MaintenanceDays   float64         `json:"maintenance_days"`
	MaintenanceCost   float64         `json:"maintenance_cost"`
	RiskCost          float64         `json:"risk_cost"`
	TotalCost         float64         `json:"total_cost"`
	TotalWorkloadDays float64         `json:"total_workload_days"`
}

// Rates are the non-catalog prices the estimate needs.
type Rates struct {
	TravelCostPerMonth float64
}

// DefaultRates returns the server defaults.
func DefaultRates() Rates {
	return Rates{TravelCostPerMonth: DefaultTravelCostPerMonth}
}

// EstimateCost computes the breakdown for d using the catalog's risk items
// and roles. The assessment's own maintenance_daily_cost overrides the
// default when set and non-zero.
func EstimateCost(d assessment.Data, cat Catalog, rates Rates) Estimate {
	summary := Evaluate(d.RiskScores, cat.RiskItems)

	est := Estimate{
		Rating:      summary,
		Development: WorkloadCost(d.DevelopmentWorkload, cat.Roles, summary.NormalizedFactor),
		Integration: WorkloadCost(d.IntegrationWorkload, cat.Roles, summary.NormalizedFactor),
	}

	headcount := 0.0
	if d.TravelHeadcount != nil {
		headcount = *d.TravelHeadcount
	}
	est.TravelCost = d.TravelMonths * headcount * (rates.TravelCostPerMonth / priceUnit)

	est.MaintenanceDays = d.MaintenanceMonths * d.MaintenanceHeadcount * WorkDaysPerMonth
	daily := DefaultMaintenanceDailyCost
	if d.MaintenanceDailyCost != nil && *d.MaintenanceDailyCost != 0 {
		daily = *d.MaintenanceDailyCost
	}
	est.MaintenanceCost = est.MaintenanceDays * (daily / priceUnit)

	for _, item := range d.RiskCostItems {
		est.RiskCost += finiteOrZero(item.Cost)
	}

	est.TotalCost = est.Development.Cost + est.Integration.Cost + est.TravelCost + est.MaintenanceCost + est.RiskCost
	est.TotalWorkloadDays = est.Development.Days + est.Integration.Days + est.MaintenanceDays
	return est
}

// Rounded returns the estimate with money amounts rounded to whole units,
// the precision the project record stores.
func (e Estimate) Rounded() Estimate {
	e.Development.Cost = math.Round(e.Development.Cost)
	e.Integration.Cost = math.Round(e.Integration.Cost)
	e.TravelCost = math.Round(e.TravelCost)
	e.MaintenanceCost = math.Round(e.MaintenanceCost)
	e.RiskCost = math.Round(e.RiskCost)
	e.TotalCost = math.Round(e.TotalCost)
	return e
}

func factorOrOne(p *float64) float64 {
	if p == nil || *p == 0 {
		return 1
	}
	return *p
}
