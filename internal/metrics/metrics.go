package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path", "status"},
	)

	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_token_verifications_total",
			Help: "Total number of capability-token verifications by outcome",
		},
		[]string{"token_type", "outcome"},
	)

	UploadSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_upload_sessions_active",
			Help: "Number of upload sessions not yet committed, aborted, or reaped",
		},
	)

	UploadSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_upload_sessions_total",
			Help: "Total upload sessions by terminal outcome",
		},
		[]string{"outcome"}, // committed, aborted, reaped
	)

	ChunksUploadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_chunks_uploaded_total",
			Help: "Total chunks accepted by put_chunk, by outcome",
		},
		[]string{"status"},
	)

	ChunkUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vault_chunk_upload_bytes",
			Help:    "Size of chunks accepted by put_chunk",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	FilesCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_files_committed_total",
			Help: "Total files successfully committed",
		},
	)

	FileDeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_file_deletions_total",
			Help: "Total file deletions by outcome",
		},
		[]string{"status"},
	)

	QuotaExceededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_quota_exceeded_total",
			Help: "Total start_upload calls rejected for exceeding quota",
		},
	)

	PaymentFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_payment_failures_total",
			Help: "Total PaymentGuard deductions that failed, by method",
		},
		[]string{"method"},
	)

	BucketUsedBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vault_bucket_used_bytes",
			Help: "Bytes currently stored per bucket",
		},
		[]string{"bucket"},
	)

	ShareLinksActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_share_links_active",
			Help: "Number of unrevoked share links, regardless of expiry",
		},
	)

	ShareLinkResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_share_link_resolutions_total",
			Help: "Total share link resolution attempts by outcome",
		},
		[]string{"outcome"},
	)

	ReaperSweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_reaper_sweeps_total",
			Help: "Total reaper sweep cycles run",
		},
	)

	ReaperSessionsReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_reaper_sessions_reaped_total",
			Help: "Total upload sessions removed by the reaper for exceeding their TTL",
		},
	)

	JobsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_enqueued_total",
			Help: "Total number of jobs enqueued",
		},
		[]string{"type"},
	)

	JobsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Total number of jobs processed",
		},
		[]string{"type", "status"},
	)

	JobsProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobs_processing_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"type", "stage"},
	)

	JobsInQueue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobs_in_queue",
			Help: "Number of jobs currently in queue",
		},
		[]string{"queue"},
	)

	WorkerPoolActiveJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_pool_active_jobs",
			Help: "Number of jobs currently being processed by workers",
		},
	)

	WorkerPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_pool_size",
			Help: "Size of the worker pool",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "environment", "service"},
	)

	AppUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_up",
			Help: "Application is up and running",
		},
	)
)

func NormalizePath(path string) string {
	return uuidRegex.ReplaceAllString(path, ":id")
}

func RecordTokenVerification(tokenType, outcome string) {
	TokenVerificationsTotal.WithLabelValues(tokenType, outcome).Inc()
}

func RecordChunkUploaded(status string, sizeBytes int) {
	ChunksUploadedTotal.WithLabelValues(status).Inc()
	if status == "success" {
		ChunkUploadBytes.Observe(float64(sizeBytes))
	}
}

func RecordUploadSessionOutcome(outcome string) {
	UploadSessionsTotal.WithLabelValues(outcome).Inc()
}

func RecordFileDeletion(status string) {
	FileDeletionsTotal.WithLabelValues(status).Inc()
}

func RecordPaymentFailure(method string) {
	PaymentFailuresTotal.WithLabelValues(method).Inc()
}

func SetBucketUsedBytes(bucketHex string, bytes uint64) {
	BucketUsedBytes.WithLabelValues(bucketHex).Set(float64(bytes))
}

func RecordShareLinkResolution(outcome string) {
	ShareLinkResolutionsTotal.WithLabelValues(outcome).Inc()
}

func RecordJobEnqueued(jobType string) {
	JobsEnqueuedTotal.WithLabelValues(jobType).Inc()
}

func RecordJobProcessed(jobType, status string, durationSeconds float64) {
	JobsProcessedTotal.WithLabelValues(jobType, status).Inc()
	JobsProcessingDuration.WithLabelValues(jobType, "total").Observe(durationSeconds)
}

func RecordJobStage(jobType, stage string, durationSeconds float64) {
	JobsProcessingDuration.WithLabelValues(jobType, stage).Observe(durationSeconds)
}

func SetAppInfo(version, environment, service string) {
	AppInfo.WithLabelValues(version, environment, service).Set(1)
	AppUp.Set(1)
}

func SetWorkerPoolSize(size int) {
	WorkerPoolSize.Set(float64(size))
}

func SetJobsInQueue(queue string, count int64) {
	JobsInQueue.WithLabelValues(queue).Set(float64(count))
}
