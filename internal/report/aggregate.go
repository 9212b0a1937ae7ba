package report

import (
	"math"
	"sort"
	"strconv"
)

// All aggregators are pure: they read the (already filtered) event sequence
// and return fresh rows in a deterministic order.

// statusCounts tallies one bucket's rows by canonical status.
type statusCounts struct {
	total     int
	planned   int
	completed int
	cancelled int
}

func (c *statusCounts) add(s Status) {
	c.total++
	switch s {
	case StatusCompleted:
		c.completed++
	case StatusCancelled:
		c.cancelled++
	default:
		c.planned++
	}
}

// completionRate formats completed/total as a rounded integer percentage.
// An empty bucket is "0%" — never a division by zero.
func completionRate(completed, total int) string {
	if total == 0 {
		return "0%"
	}
	pct := math.Round(float64(completed) / float64(total) * 100)
	return strconv.Itoa(int(pct)) + "%"
}

// aggregateDetail is the 1:1 passthrough: one output row per event, input
// order preserved, with the date and status fields normalized.
func aggregateDetail(events []Event) []Row {
	rows := make([]Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, Row{
			"event_date":    ToISODate(e.EventDate),
			"customer_name": e.CustomerName,
			"customer_code": e.CustomerCode,
			"territory":     e.Territory,
			"status":        string(NormalizeStatus(e.Status)),
		})
	}
	return rows
}

// aggregateByTerritory buckets events by territory name ("Unassigned" when
// absent) and emits one row per territory in ascending name order.
func aggregateByTerritory(events []Event) []Row {
	buckets := make(map[string]*statusCounts)
	for _, e := range events {
		name := e.Territory
		if name == "" {
			name = "Unassigned"
		}
		b := buckets[name]
		if b == nil {
			b = &statusCounts{}
			buckets[name] = b
		}
		b.add(NormalizeStatus(e.Status))
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]Row, 0, len(names))
	for _, name := range names {
		b := buckets[name]
		rows = append(rows, Row{
			"territory":        name,
			"total_visits":     strconv.Itoa(b.total),
			"planned_visits":   strconv.Itoa(b.planned),
			"completed_visits": strconv.Itoa(b.completed),
			"cancelled_visits": strconv.Itoa(b.cancelled),
			"completion_rate":  completionRate(b.completed, b.total),
		})
	}
	return rows
}

// aggregateByMonth buckets events by the calendar month of their event date.
// Rows whose date cannot be parsed are dropped from every bucket; they still
// count toward the global summary metrics, which are computed from the source
// rows. Output is ordered by month key (YYYY-MM) ascending.
func aggregateByMonth(events []Event) []Row {
	type monthBucket struct {
		label string
		statusCounts
	}
	buckets := make(map[string]*monthBucket)
	for _, e := range events {
		t, ok := parseDate(e.EventDate)
		if !ok {
			continue
		}
		key := t.Format("2006-01")
		b := buckets[key]
		if b == nil {
			b = &monthBucket{label: t.Format("January 2006")}
			buckets[key] = b
		}
		b.add(NormalizeStatus(e.Status))
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		rows = append(rows, Row{
			"month":            b.label,
			"total_visits":     strconv.Itoa(b.total),
			"planned_visits":   strconv.Itoa(b.planned),
			"completed_visits": strconv.Itoa(b.completed),
			"cancelled_visits": strconv.Itoa(b.cancelled),
		})
	}
	return rows
}

// aggregateByCustomer buckets events by the composite customer code + name
// key ("-"/"Unknown" when absent) and emits one row per customer ordered by
// customer name ascending (code breaks ties).
//
// last_visit_date is the lexical max of the bucket's parsed ISO dates, which
// is the chronological max because ISO dates are zero padded. Unparsed dates
// do not contribute; a bucket with none is "".
func aggregateByCustomer(events []Event) []Row {
	type customerBucket struct {
		code      string
		name      string
		territory string
		lastVisit string
		statusCounts
	}
	buckets := make(map[string]*customerBucket)
	order := make([]string, 0)

	for _, e := range events {
		code := e.CustomerCode
		if code == "" {
			code = "-"
		}
		name := e.CustomerName
		if name == "" {
			name = "Unknown"
		}
		key := code + "\x00" + name
		b := buckets[key]
		if b == nil {
			b = &customerBucket{code: code, name: name}
			buckets[key] = b
			order = append(order, key)
		}
		b.add(NormalizeStatus(e.Status))
		if b.territory == "" {
			b.territory = e.Territory
		}
		if _, ok := parseDate(e.EventDate); ok {
			iso := ToISODate(e.EventDate)
			if iso > b.lastVisit {
				b.lastVisit = iso
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := buckets[order[i]], buckets[order[j]]
		if a.name != b.name {
			return a.name < b.name
		}
		return a.code < b.code
	})

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		territory := b.territory
		if territory == "" {
			territory = "Unassigned"
		}
		rows = append(rows, Row{
			"customer_code":    b.code,
			"customer_name":    b.name,
			"territory":        territory,
			"total_visits":     strconv.Itoa(b.total),
			"planned_visits":   strconv.Itoa(b.planned),
			"completed_visits": strconv.Itoa(b.completed),
			"completion_rate":  completionRate(b.completed, b.total),
			"last_visit_date":  b.lastVisit,
		})
	}
	return rows
}
