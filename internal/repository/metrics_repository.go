package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pleme-io/pleme-support/internal/domain"
)

// trendWindowDays is the span of the ticket-trend series: the calendar days
// [period_end - 6d, period_end], seven rows regardless of period_start.
const trendWindowDays = 6

// MetricsRepository computes the dashboard analytics groups. All groups
// except trends scope to live tickets of the product created within
// [periodStart, periodEnd].
type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.DashboardMetrics, error)
}

type metricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository instantiates repository.
func NewMetricsRepository(pool *pgxpool.Pool) MetricsRepository {
	return &metricsRepository{pool: pool}
}

// GetDashboardMetrics composes the seven metric groups. The sub-queries run
// outside a transaction, so under concurrent writes each group may observe a
// slightly different instant; the first failing group aborts the whole
// composition.
func (r *metricsRepository) GetDashboardMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.DashboardMetrics, error) {
	overview, err := r.overviewMetrics(ctx, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	byStatus, err := r.statusCounts(ctx, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	byPriority, err := r.priorityCounts(ctx, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	sla, err := r.slaMetrics(ctx, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	response, err := r.responseMetrics(ctx, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	topAgents, err := r.topAgents(ctx, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	trends, err := r.ticketTrends(ctx, product, periodEnd)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardMetrics{
		Overview:         *overview,
		TicketByStatus:   byStatus,
		TicketByPriority: byPriority,
		SLAMetrics:       *sla,
		ResponseMetrics:  *response,
		TopAgents:        topAgents,
		TicketTrends:     trends,
	}, nil
}

func (r *metricsRepository) overviewMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.OverviewMetrics, error) {
	// The "today" counters use a rolling 24h window ending now, independent
	// of the requested period. NULLIF keeps zero denominators null instead
	// of raising a division error.
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE status NOT IN ('CLOSED', 'RESOLVED')) AS total_active_tickets,
            COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '1 day') AS new_tickets_today,
            COUNT(*) FILTER (WHERE resolved_at >= NOW() - INTERVAL '1 day') AS resolved_tickets_today,
            AVG(EXTRACT(EPOCH FROM (first_response_at - created_at)) / 60) FILTER (WHERE first_response_at IS NOT NULL) AS avg_first_response_time_minutes,
            AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600) FILTER (WHERE resolved_at IS NOT NULL) AS avg_resolution_time_hours,
            (COUNT(*) FILTER (WHERE resolved_at IS NOT NULL AND first_response_at IS NOT NULL
                AND resolved_at - first_response_at < INTERVAL '1 hour')::FLOAT /
            NULLIF(COUNT(*) FILTER (WHERE resolved_at IS NOT NULL), 0)::FLOAT * 100) AS first_contact_resolution_rate,
            (COUNT(*) FILTER (WHERE sla_breach = FALSE)::FLOAT /
            NULLIF(COUNT(*), 0)::FLOAT * 100) AS sla_compliance_rate,
            COUNT(*) FILTER (WHERE sla_breach = TRUE) AS sla_breach_count,
            AVG(csat_score::FLOAT) FILTER (WHERE csat_score IS NOT NULL) AS avg_csat_score
        FROM support_tickets
        WHERE product = $1
          AND deleted_at IS NULL
          AND created_at BETWEEN $2 AND $3`
	var m domain.OverviewMetrics
	if err := r.pool.QueryRow(ctx, query, product, periodStart, periodEnd).Scan(
		&m.TotalActiveTickets,
		&m.NewTicketsToday,
		&m.ResolvedTicketsToday,
		&m.AvgFirstResponseTimeMinutes,
		&m.AvgResolutionTimeHours,
		&m.FirstContactResolutionRate,
		&m.SLAComplianceRate,
		&m.SLABreachCount,
		&m.AvgCSATScore,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metricsRepository) statusCounts(ctx context.Context, product string, periodStart, periodEnd time.Time) ([]domain.TicketStatusCount, error) {
	const query = `
        SELECT status::TEXT, COUNT(*)::BIGINT AS count
        FROM support_tickets
        WHERE product = $1
          AND deleted_at IS NULL
          AND created_at BETWEEN $2 AND $3
        GROUP BY status
        ORDER BY count DESC`
	rows, err := r.pool.Query(ctx, query, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TicketStatusCount
	for rows.Next() {
		var c domain.TicketStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *metricsRepository) priorityCounts(ctx context.Context, product string, periodStart, periodEnd time.Time) ([]domain.TicketPriorityCount, error) {
	// Rows are always emitted in severity order, not by count; priorities
	// with no tickets in the window are absent (GROUP BY semantics).
	const query = `
        SELECT priority::TEXT, COUNT(*)::BIGINT AS count
        FROM support_tickets
        WHERE product = $1
          AND deleted_at IS NULL
          AND created_at BETWEEN $2 AND $3
        GROUP BY priority
        ORDER BY
            CASE priority::TEXT
                WHEN 'URGENT' THEN 1
                WHEN 'HIGH' THEN 2
                WHEN 'MEDIUM' THEN 3
                WHEN 'LOW' THEN 4
            END`
	rows, err := r.pool.Query(ctx, query, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TicketPriorityCount
	for rows.Next() {
		var c domain.TicketPriorityCount
		if err := rows.Scan(&c.Priority, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *metricsRepository) slaMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.SLAMetrics, error) {
	// Unlike the overview, an empty scope yields a compliance rate of 0.0,
	// not null.
	const query = `
        SELECT
            COUNT(*)::BIGINT AS total_tickets,
            COUNT(*) FILTER (WHERE sla_breach = FALSE)::BIGINT AS tickets_meeting_sla,
            COUNT(*) FILTER (WHERE sla_breach = TRUE)::BIGINT AS tickets_breaching_sla,
            COALESCE(
                COUNT(*) FILTER (WHERE sla_breach = FALSE)::FLOAT /
                NULLIF(COUNT(*), 0)::FLOAT * 100,
                0.0
            ) AS compliance_rate,
            AVG(EXTRACT(EPOCH FROM (first_response_at - created_at)) / 60) FILTER (WHERE first_response_at IS NOT NULL) AS avg_first_response_minutes,
            AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600) FILTER (WHERE resolved_at IS NOT NULL) AS avg_resolution_hours
        FROM support_tickets
        WHERE product = $1
          AND deleted_at IS NULL
          AND created_at BETWEEN $2 AND $3`
	var m domain.SLAMetrics
	if err := r.pool.QueryRow(ctx, query, product, periodStart, periodEnd).Scan(
		&m.TotalTickets,
		&m.TicketsMeetingSLA,
		&m.TicketsBreachingSLA,
		&m.ComplianceRate,
		&m.AvgFirstResponseMinutes,
		&m.AvgResolutionHours,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metricsRepository) responseMetrics(ctx context.Context, product string, periodStart, periodEnd time.Time) (*domain.ResponseMetrics, error) {
	// PERCENTILE_CONT interpolates the 50th percentile and skips rows whose
	// ordering expression is null, matching the AVG denominators.
	const query = `
        SELECT
            AVG(EXTRACT(EPOCH FROM (first_response_at - created_at)) / 60) AS avg_first_response_minutes,
            PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (first_response_at - created_at)) / 60) AS median_first_response_minutes,
            AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600) AS avg_resolution_hours,
            PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600) AS median_resolution_hours
        FROM support_tickets
        WHERE product = $1
          AND deleted_at IS NULL
          AND created_at BETWEEN $2 AND $3`
	var m domain.ResponseMetrics
	if err := r.pool.QueryRow(ctx, query, product, periodStart, periodEnd).Scan(
		&m.AvgFirstResponseMinutes,
		&m.MedianFirstResponseMinutes,
		&m.AvgResolutionHours,
		&m.MedianResolutionHours,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metricsRepository) topAgents(ctx context.Context, product string, periodStart, periodEnd time.Time) ([]domain.AgentPerformance, error) {
	// Agent display names live in the embedding service's directory; the id
	// doubles as the name here.
	const query = `
        SELECT
            assigned_to::TEXT AS agent_id,
            assigned_to::TEXT AS agent_name,
            COUNT(*)::BIGINT AS tickets_assigned,
            COUNT(*) FILTER (WHERE status = 'RESOLVED' OR status = 'CLOSED')::BIGINT AS tickets_resolved,
            AVG(EXTRACT(EPOCH FROM (first_response_at - created_at)) / 60) FILTER (WHERE first_response_at IS NOT NULL) AS avg_first_response_minutes,
            AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600) FILTER (WHERE resolved_at IS NOT NULL) AS avg_resolution_hours,
            AVG(csat_score::FLOAT) FILTER (WHERE csat_score IS NOT NULL) AS csat_score
        FROM support_tickets
        WHERE product = $1
          AND deleted_at IS NULL
          AND assigned_to IS NOT NULL
          AND created_at BETWEEN $2 AND $3
        GROUP BY assigned_to
        ORDER BY tickets_resolved DESC
        LIMIT 10`
	rows, err := r.pool.Query(ctx, query, product, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.AgentPerformance
	for rows.Next() {
		var a domain.AgentPerformance
		if err := rows.Scan(
			&a.AgentID,
			&a.AgentName,
			&a.TicketsAssigned,
			&a.TicketsResolved,
			&a.AvgFirstResponseMinutes,
			&a.AvgResolutionHours,
			&a.CSATScore,
		); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *metricsRepository) ticketTrends(ctx context.Context, product string, periodEnd time.Time) ([]domain.TicketTrend, error) {
	// A date spine guarantees one row per calendar day even for days with
	// zero tickets. The per-day active count is cumulative within the
	// window: tickets still open that were created on or before the day.
	start := periodEnd.AddDate(0, 0, -trendWindowDays)

	const query = `
        WITH date_series AS (
            SELECT generate_series($2::DATE, $3::DATE, '1 day'::INTERVAL)::DATE AS date
        )
        SELECT
            ds.date::TEXT AS date,
            COALESCE(COUNT(*) FILTER (WHERE DATE(created_at) = ds.date), 0)::BIGINT AS new_tickets,
            COALESCE(COUNT(*) FILTER (WHERE DATE(resolved_at) = ds.date), 0)::BIGINT AS resolved_tickets,
            COALESCE(COUNT(*) FILTER (WHERE status NOT IN ('CLOSED', 'RESOLVED') AND DATE(created_at) <= ds.date), 0)::BIGINT AS active_tickets
        FROM date_series ds
        LEFT JOIN support_tickets st ON st.product = $1 AND st.deleted_at IS NULL
        GROUP BY ds.date
        ORDER BY ds.date DESC`
	rows, err := r.pool.Query(ctx, query, product, start, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []domain.TicketTrend
	for rows.Next() {
		var t domain.TicketTrend
		if err := rows.Scan(&t.Date, &t.NewTickets, &t.ResolvedTickets, &t.ActiveTickets); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}
