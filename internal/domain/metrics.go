package domain

// DashboardMetrics composes the seven analytics groups for one product and
// reporting period.
type DashboardMetrics struct {
	Overview         OverviewMetrics       `json:"overview"`
	TicketByStatus   []TicketStatusCount   `json:"ticket_by_status"`
	TicketByPriority []TicketPriorityCount `json:"ticket_by_priority"`
	SLAMetrics       SLAMetrics            `json:"sla_metrics"`
	ResponseMetrics  ResponseMetrics       `json:"response_metrics"`
	TopAgents        []AgentPerformance    `json:"top_agents"`
	TicketTrends     []TicketTrend         `json:"ticket_trends"`
}

// OverviewMetrics is the headline single-row aggregate. Averages and rates
// are nil when no ticket in scope qualifies for the denominator.
type OverviewMetrics struct {
	TotalActiveTickets          int64    `json:"total_active_tickets"`
	NewTicketsToday             int64    `json:"new_tickets_today"`
	ResolvedTicketsToday        int64    `json:"resolved_tickets_today"`
	AvgFirstResponseTimeMinutes *float64 `json:"avg_first_response_time_minutes"`
	AvgResolutionTimeHours      *float64 `json:"avg_resolution_time_hours"`
	FirstContactResolutionRate  *float64 `json:"first_contact_resolution_rate"`
	SLAComplianceRate           *float64 `json:"sla_compliance_rate"`
	SLABreachCount              int64    `json:"sla_breach_count"`
	AvgCSATScore                *float64 `json:"avg_csat_score"`
}

// TicketStatusCount is one row of the by-status breakdown.
type TicketStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TicketPriorityCount is one row of the by-priority breakdown, emitted in
// fixed severity order (URGENT, HIGH, MEDIUM, LOW).
type TicketPriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// SLAMetrics summarizes SLA adherence. ComplianceRate is 0.0 (not nil) when
// no tickets are in scope, unlike the overview rate.
type SLAMetrics struct {
	TotalTickets            int64    `json:"total_tickets"`
	TicketsMeetingSLA       int64    `json:"tickets_meeting_sla"`
	TicketsBreachingSLA     int64    `json:"tickets_breaching_sla"`
	ComplianceRate          float64  `json:"compliance_rate"`
	AvgFirstResponseMinutes *float64 `json:"avg_first_response_minutes"`
	AvgResolutionHours      *float64 `json:"avg_resolution_hours"`
}

// ResponseMetrics carries average and interpolated-median response times,
// each computed only over tickets where the underlying timestamp exists.
type ResponseMetrics struct {
	AvgFirstResponseMinutes    *float64 `json:"avg_first_response_minutes"`
	MedianFirstResponseMinutes *float64 `json:"median_first_response_minutes"`
	AvgResolutionHours         *float64 `json:"avg_resolution_hours"`
	MedianResolutionHours      *float64 `json:"median_resolution_hours"`
}

// AgentPerformance is one row of the top-agent ranking.
type AgentPerformance struct {
	AgentID                 string   `json:"agent_id"`
	AgentName               string   `json:"agent_name"`
	TicketsAssigned         int64    `json:"tickets_assigned"`
	TicketsResolved         int64    `json:"tickets_resolved"`
	AvgFirstResponseMinutes *float64 `json:"avg_first_response_minutes"`
	AvgResolutionHours      *float64 `json:"avg_resolution_hours"`
	CSATScore               *float64 `json:"csat_score"`
}

// TicketTrend is one calendar day of the trailing trend window.
type TicketTrend struct {
	Date            string `json:"date"`
	NewTickets      int64  `json:"new_tickets"`
	ResolvedTickets int64  `json:"resolved_tickets"`
	ActiveTickets   int64  `json:"active_tickets"`
}
