package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rentflow/rentflow/pkg/errs"
)

const (
	namespace = "rentflow"

	resultOK    = "ok"
	resultError = "error"
)

var (
	leaseOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lease",
			Name:      "operations_total",
			Help:      "Lease program operations by result",
		},
		[]string{"operation", "result"},
	)

	leaseActivations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lease",
			Name:      "activations_total",
			Help:      "Leases activated by the second signature",
		},
	)

	ledgerCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "commits_total",
			Help:      "Account commits by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		leaseOperations,
		leaseActivations,
		ledgerCommits,
	)
}

// LeaseOperation counts an operation. Lease errors are labeled with their names.
func LeaseOperation(op string, err error) {
	leaseOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

func LeaseActivated() {
	leaseActivations.Inc()
}

func LedgerCommit(ok bool) {
	if ok {
		ledgerCommits.WithLabelValues(resultOK).Inc()
		return
	}
	ledgerCommits.WithLabelValues(resultError).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return resultOK
	}
	var le *errs.LeaseError
	if errors.As(err, &le) {
		return le.Code().String()
	}
	return resultError
}
