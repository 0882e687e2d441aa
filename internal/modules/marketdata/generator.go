// Package marketdata synthesizes daily OHLC price histories for the asset
// universe using a geometric Brownian motion with market cycles, volatility
// clustering and rare jumps.
package marketdata

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tharwa/advisor/pkg/formulas"
)

const (
	dt              = 1.0 / formulas.TradingDaysPerYear
	cycleLength     = formulas.TradingDaysPerYear * 2 // 2-year market cycle
	cycleStrength   = 0.1                             // 10% of daily drift amplitude
	clusterWindow   = 10                              // days of realized volatility
	clusterBlend    = 0.5                             // 50/50 nudge toward realized volatility
	jumpProbability = 0.005                           // 0.5% daily chance of a jump
	jumpMagnitude   = 0.10                            // uniform +-10% multiplicative jump
	priceFloor      = 0.01
)

// Bar is one synthetic daily OHLC observation.
type Bar struct {
	Date          time.Time
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        *int64
	AdjustedClose float64
}

// Spec describes the instrument whose history is generated.
type Spec struct {
	Category  string
	Market    string
	RiskLevel int
	Days      int
	Seed      uint64 // 0 = non-deterministic
}

// Generator produces synthetic price histories.
type Generator struct {
	log zerolog.Logger
}

// NewGenerator creates a new market data generator.
func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{
		log: log.With().Str("component", "marketdata").Logger(),
	}
}

// Series is a lazy, finite sequence of daily closes. It is not restartable:
// once consumed, an identical series can only be obtained by constructing a
// new one with the same seed.
type Series struct {
	rng       *rand.Rand
	normal    distuv.Normal
	vol       float64
	drift     float64
	price     float64
	step      int
	remaining int
	recent    []float64 // ring of recent daily returns for clustering
}

// NewSeries constructs the lazy close-price sequence for a spec.
// The initial price is drawn uniformly from the category/market range and is
// emitted as the first value.
func (g *Generator) NewSeries(spec Spec) *Series {
	src := newSource(spec.Seed)
	rng := rand.New(src)

	r := initialPriceRange(spec.Category, spec.Market)
	initial := r.low + rng.Float64()*(r.high-r.low)

	annualReturn := expectedAnnualReturn(spec.RiskLevel, spec.Category, spec.Market)
	vol := annualVolatility(spec.RiskLevel, spec.Category)

	g.log.Debug().
		Str("category", spec.Category).
		Str("market", spec.Market).
		Int("risk_level", spec.RiskLevel).
		Float64("annual_return", annualReturn).
		Float64("volatility", vol).
		Msg("Starting price series")

	return &Series{
		rng:       rng,
		normal:    distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		vol:       vol,
		drift:     annualReturn * dt,
		price:     initial,
		remaining: spec.Days,
	}
}

// Next returns the next daily close, or false when the series is exhausted.
func (s *Series) Next() (float64, bool) {
	if s.remaining <= 0 {
		return 0, false
	}
	s.remaining--

	if s.step == 0 {
		s.step++
		return s.price, true
	}

	prev := s.price

	// Sinusoidal market-cycle component on top of the base drift.
	cycle := math.Sin(2*math.Pi*float64(s.step-1)/cycleLength) * cycleStrength * dt

	// Volatility clustering: after enough history, nudge the effective
	// volatility toward the recent realized volatility.
	volAdjustment := 1.0
	if len(s.recent) >= clusterWindow {
		realized := formulas.StdDev(s.recent)
		volAdjustment = 1 + (realized-s.vol)*clusterBlend
	}

	shock := s.vol * volAdjustment * math.Sqrt(dt) * s.normal.Rand()

	price := prev + prev*(s.drift+cycle+shock)
	if price < priceFloor {
		price = priceFloor
	}

	// Rare jump events.
	if s.rng.Float64() < jumpProbability {
		jump := -jumpMagnitude + s.rng.Float64()*2*jumpMagnitude
		price *= 1 + jump
		if price < priceFloor {
			price = priceFloor
		}
	}

	if prev != 0 {
		s.recent = append(s.recent, price/prev-1)
		if len(s.recent) > clusterWindow {
			s.recent = s.recent[1:]
		}
	}

	s.price = price
	s.step++
	return price, true
}

// GenerateHistory materializes a full OHLC history ending at endDate, one bar
// per calendar day. The first day has open = high = low = close; later days
// widen the open/close band by a random 1.2-2.0x factor.
func (g *Generator) GenerateHistory(spec Spec, endDate time.Time) []Bar {
	series := g.NewSeries(spec)

	// A separate stream for intraday ranges and volumes, offset so it does
	// not replay the close-price stream.
	ohlcSeed := spec.Seed
	if ohlcSeed != 0 {
		ohlcSeed++
	}
	ohlcRng := rand.New(newSource(ohlcSeed))

	start := endDate.AddDate(0, 0, -(spec.Days - 1))
	bars := make([]Bar, 0, spec.Days)

	prevClose := 0.0
	for i := 0; ; i++ {
		closePrice, ok := series.Next()
		if !ok {
			break
		}

		date := start.AddDate(0, 0, i)
		bar := Bar{
			Date:          date,
			Close:         round2(closePrice),
			AdjustedClose: round2(closePrice),
		}

		if i == 0 {
			bar.Open = bar.Close
			bar.High = bar.Close
			bar.Low = bar.Close
		} else {
			open := prevClose
			dailyRange := math.Abs(closePrice-open) * (1.2 + ohlcRng.Float64()*0.8)
			bar.Open = round2(open)
			bar.High = round2(math.Max(open, closePrice) + dailyRange*0.3)
			bar.Low = round2(math.Max(math.Min(open, closePrice)-dailyRange*0.3, priceFloor))
		}

		if hasVolume(spec.Category) {
			volume := int64(100000 + ohlcRng.IntN(9900001))
			bar.Volume = &volume
		}

		prevClose = bar.Close
		bars = append(bars, bar)
	}

	return bars
}

// newSource builds the PCG source behind a series. Seed 0 falls back to a
// random stream, anything else is fully reproducible.
func newSource(seed uint64) *rand.PCG {
	if seed == 0 {
		return rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
