package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	requestsTotal           *prometheus.CounterVec
	requestLatencySeconds   *prometheus.HistogramVec
	requestErrorsTotal      *prometheus.CounterVec
	signupsTotal            *prometheus.CounterVec
	coursesCreatedTotal     prometheus.Counter
	coursesDeletedTotal     prometheus.Counter
	assignmentsCreatedTotal prometheus.Counter
	submissionsTotal        prometheus.Counter
	gradesRecordedTotal     prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		requestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_request_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		signupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_signups_total",
			Help: "Accounts created, labelled by role.",
		}, []string{"role"})

		coursesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_courses_created_total",
			Help: "Courses created by teachers.",
		})

		coursesDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_courses_deleted_total",
			Help: "Courses deleted by their owners.",
		})

		assignmentsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_assignments_created_total",
			Help: "Assignments created by teachers.",
		})

		submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_submissions_received_total",
			Help: "Submissions received from students, resubmissions included.",
		})

		gradesRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_grades_recorded_total",
			Help: "Grades recorded by teachers, regrades included.",
		})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			requestErrorsTotal,
			signupsTotal,
			coursesCreatedTotal,
			coursesDeletedTotal,
			assignmentsCreatedTotal,
			submissionsTotal,
			gradesRecordedTotal,
		)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// RequestErrors exposes the counter for error responses.
func RequestErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return requestErrorsTotal
}

// Signups exposes the per-role signup counter.
func Signups() *prometheus.CounterVec {
	RegisterMetrics()
	return signupsTotal
}

// CoursesCreated exposes the course creation counter.
func CoursesCreated() prometheus.Counter {
	RegisterMetrics()
	return coursesCreatedTotal
}

// CoursesDeleted exposes the course deletion counter.
func CoursesDeleted() prometheus.Counter {
	RegisterMetrics()
	return coursesDeletedTotal
}

// AssignmentsCreated exposes the assignment creation counter.
func AssignmentsCreated() prometheus.Counter {
	RegisterMetrics()
	return assignmentsCreatedTotal
}

// SubmissionsReceived exposes the submission counter.
func SubmissionsReceived() prometheus.Counter {
	RegisterMetrics()
	return submissionsTotal
}

// GradesRecorded exposes the grading counter.
func GradesRecorded() prometheus.Counter {
	RegisterMetrics()
	return gradesRecordedTotal
}
