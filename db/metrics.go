package db

import (
	"sync"

	"github.com/streamingfast/dmetrics"
)

var registerOnce sync.Once

// RegisterMetrics registers the package counters, only the first call has an
// effect.
func RegisterMetrics() {
	registerOnce.Do(metrics.Register)
}

var metrics = dmetrics.NewSet()

var InsertCount = metrics.NewCounter("record_inserter_insert_count", "The number of successful single value inserts")
var InvalidIdentifierCount = metrics.NewCounter("record_inserter_invalid_identifier_count", "The number of inserts rejected because of an invalid table name")
var ExecutionErrorCount = metrics.NewCounter("record_inserter_execution_error_count", "The number of inserts that failed in the database")
