package report

// Type identifies one of the four fixed report shapes.
type Type string

// The closed set of report types. Each is bound to a label, a default column
// list, and an aggregation function in the definitions table below.
const (
	TypeVisitDetail         Type = "visit_detail"
	TypeExecutiveSummary    Type = "executive_summary"
	TypeMonthlySummary      Type = "monthly_summary"
	TypeCustomerPerformance Type = "customer_performance"
)

// Row is a single aggregated output row. Rows are loosely structured records:
// the available-column set is discovered by observing produced keys rather
// than declared per report, because report shapes may vary their emitted keys.
type Row map[string]string

// Definition is a static registry entry for one report type.
// Definitions are immutable shared configuration; aggregators are pure, so no
// per-request copies are needed.
type Definition struct {
	Label          string
	DefaultColumns []string
	aggregate      func([]Event) []Row
}

var definitions = map[Type]Definition{
	TypeVisitDetail: {
		Label: "Visit Detail",
		DefaultColumns: []string{
			"event_date", "customer_name", "customer_code", "territory", "status",
		},
		aggregate: aggregateDetail,
	},
	TypeExecutiveSummary: {
		Label: "Executive Summary",
		DefaultColumns: []string{
			"territory", "total_visits", "planned_visits",
			"completed_visits", "cancelled_visits", "completion_rate",
		},
		aggregate: aggregateByTerritory,
	},
	TypeMonthlySummary: {
		Label: "Monthly Summary",
		DefaultColumns: []string{
			"month", "total_visits", "planned_visits",
			"completed_visits", "cancelled_visits",
		},
		aggregate: aggregateByMonth,
	},
	TypeCustomerPerformance: {
		Label: "Customer Performance",
		DefaultColumns: []string{
			"customer_code", "customer_name", "territory", "total_visits",
			"planned_visits", "completed_visits", "completion_rate",
			"last_visit_date",
		},
		aggregate: aggregateByCustomer,
	},
}

// Types returns every registered report type in a fixed display order.
func Types() []Type {
	return []Type{
		TypeVisitDetail,
		TypeExecutiveSummary,
		TypeMonthlySummary,
		TypeCustomerPerformance,
	}
}

// Label returns the human-readable name of a report type, or "" when the
// type is not registered.
func Label(t Type) string {
	return definitions[t].Label
}

// BuildRows aggregates source events into the report shape for t.
// Returns ErrUnknownReportType when t is not one of the registered types.
func BuildRows(t Type, events []Event) ([]Row, error) {
	def, ok := definitions[t]
	if !ok {
		return nil, ErrUnknownReportType
	}
	return def.aggregate(events), nil
}
