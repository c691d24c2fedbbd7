package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Committed cart mutations by operation",
	}, []string{"op"})

	cartValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_value",
		Help:    "Cart total after each committed mutation",
		Buckets: []float64{0, 10, 25, 50, 100, 150, 250, 500, 1000},
	})
)
