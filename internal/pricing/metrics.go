package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotesComputedTotal tracks computed quotes by kind.
	QuotesComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketbot_pricing_quotes_total",
			Help: "Total number of price quotes computed",
		},
		[]string{"kind"},
	)

	// LiquidityFailuresTotal tracks quote attempts that found no executable
	// liquidity.
	LiquidityFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketbot_pricing_liquidity_failures_total",
		Help: "Total number of quote attempts with insufficient liquidity",
	})

	// FloorPriceGauge exports the last observed floor price per token for
	// the watch command.
	FloorPriceGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketbot_floor_price",
			Help: "Last observed floor price in payment-token units",
		},
		[]string{"token"},
	)
)
