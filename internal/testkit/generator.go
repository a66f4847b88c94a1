// Package testkit generates seeded synthetic commerce datasets for tests and
// the demo path.
package testkit

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"commercepulse/domain/table"
)

// GeneratorConfig configures the sample dataset generator
type GeneratorConfig struct {
	OrderCount    int       `json:"order_count"`
	CustomerCount int       `json:"customer_count"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Seed          int64     `json:"seed"`
}

// DefaultGeneratorConfig returns the stock 12-month, 1000-order dataset shape
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OrderCount:    1000,
		CustomerCount: 300,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Seed:          42,
	}
}

// Generator produces realistic transaction tables with repeat buyers,
// channel-correlated marketing spend, and cost tied to revenue.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator with the given config
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// channelSpendRanges correlates marketing spend with acquisition channel
var channelSpendRanges = map[string][2]float64{
	"Organic":  {5, 20},
	"Paid":     {50, 200},
	"Social":   {20, 80},
	"Email":    {2, 15},
	"Referral": {10, 40},
}

var (
	sampleChannels   = []string{"Organic", "Paid", "Social", "Email", "Referral"}
	sampleRegions    = []string{"North", "South", "East", "West"}
	sampleCategories = []string{"Electronics", "Fashion", "Home", "Beauty"}
	sampleDevices    = []string{"Mobile", "Desktop", "Tablet"}
)

// Generate builds a raw sample table with canonical column names. Values are
// cell strings so the full cleaning path gets exercised.
func (g *Generator) Generate() *table.Table {
	type order struct {
		date time.Time
		row  []table.Value
	}

	spanDays := int(g.config.EndDate.Sub(g.config.StartDate).Hours() / 24)
	if spanDays < 1 {
		spanDays = 1
	}

	orders := make([]order, 0, g.config.OrderCount)
	for i := 0; i < g.config.OrderCount; i++ {
		date := g.config.StartDate.AddDate(0, 0, g.rng.Intn(spanDays+1))

		revenue := g.rng.NormFloat64()*500 + 1500
		if revenue < 100 {
			revenue = 100
		}
		cost := revenue * (0.60 + g.rng.Float64()*0.20)

		channel := sampleChannels[g.rng.Intn(len(sampleChannels))]
		spendRange := channelSpendRanges[channel]
		spend := spendRange[0] + g.rng.Float64()*(spendRange[1]-spendRange[0])

		customer := fmt.Sprintf("CUST-%04d", g.rng.Intn(g.config.CustomerCount)+1)

		orders = append(orders, order{
			date: date,
			row: []table.Value{
				table.String(date.Format("2006-01-02")),
				table.String(fmt.Sprintf("ORD-%04d", i+1)),
				table.String(customer),
				table.String(fmt.Sprintf("%.2f", revenue)),
				table.String(fmt.Sprintf("%.2f", cost)),
				table.String(channel),
				table.String(sampleRegions[g.rng.Intn(len(sampleRegions))]),
				table.String(sampleCategories[g.rng.Intn(len(sampleCategories))]),
				table.String(g.pickDevice()),
				table.String(fmt.Sprintf("%.2f", spend)),
			},
		})
	}

	// Sorted by date for time-series consistency
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].date.Before(orders[j].date)
	})

	t := table.New([]string{
		"date", "order_id", "customer_id", "revenue", "cost",
		"channel", "region", "category", "device", "marketing_spend",
	})
	for _, o := range orders {
		t.AppendRow(o.row)
	}
	return t
}

// pickDevice weights device mix toward mobile
func (g *Generator) pickDevice() string {
	r := g.rng.Float64()
	switch {
	case r < 0.55:
		return sampleDevices[0]
	case r < 0.90:
		return sampleDevices[1]
	default:
		return sampleDevices[2]
	}
}
