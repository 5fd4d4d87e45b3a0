package repository

import (
	"time"

	"github.com/nyahub/nya-api/pkg/metrics"
)

// observe records one Mongo operation on the shared histogram.
func observe(collection, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.MongoOperationDuration.WithLabelValues(collection, operation, status).Observe(metrics.MeasureDuration(start))
}
