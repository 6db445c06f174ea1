package game

// Market drift per round: an occasional trend regime switch plus a bounded
// random walk on each multiplier. The engine never consumes these; sale-time
// scaling stays an explicit parameter on SellAsset.

const (
	regimeSwitchProb = 0.12
	marketNoiseScale = 0.04
	marketShockProb  = 0.05
	marketShockScale = 0.15
)

func NewMarketConditions() MarketConditions {
	return MarketConditions{
		Trend:            TrendStable,
		InflationRate:    0.03,
		InterestRate:     0.05,
		RealEstateMarket: 1.0,
		StockMarket:      1.0,
		CryptoMarket:     1.0,
	}
}

// driftMarket evolves the snapshot one round. next yields uniform floats in
// [0,1); passing a seeded source keeps a session replayable.
func driftMarket(mc MarketConditions, next func() float64) MarketConditions {
	out := mc
	if next() < regimeSwitchProb {
		out.Trend = randomTrend(next())
	}
	drift := trendDrift(out.Trend)
	out.RealEstateMarket = walkMultiplier(out.RealEstateMarket, drift, next, 0.8, 1.2)
	out.StockMarket = walkMultiplier(out.StockMarket, drift, next, 0.7, 1.3)
	out.CryptoMarket = walkMultiplier(out.CryptoMarket, drift*2, next, 0.5, 2.0)
	return out
}

func randomTrend(seed float64) MarketTrend {
	switch {
	case seed < 0.33:
		return TrendBear
	case seed < 0.66:
		return TrendStable
	default:
		return TrendBull
	}
}

func trendDrift(trend MarketTrend) float64 {
	switch trend {
	case TrendBull:
		return 0.01
	case TrendBear:
		return -0.01
	default:
		return 0
	}
}

func walkMultiplier(v, drift float64, next func() float64, lo, hi float64) float64 {
	ret := drift + marketNoiseScale*normalish(next())
	if next() < marketShockProb {
		ret += signedShock(next(), next(), marketShockScale)
	}
	v *= 1 + ret
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalish(seed float64) float64 {
	return seed + seed - 1
}

func signedShock(magSeed, signSeed, base float64) float64 {
	mag := base * (0.35 + 2.8*magSeed*magSeed)
	if signSeed < 0.5 {
		return -mag
	}
	return mag
}

// MultiplierFor maps an asset category onto the market multiplier that
// out-of-engine callers may apply at sale time.
func MultiplierFor(mc MarketConditions, t AssetType) float64 {
	switch t {
	case AssetRealEstate:
		return mc.RealEstateMarket
	case AssetStock:
		return mc.StockMarket
	case AssetCrypto:
		return mc.CryptoMarket
	default:
		return 1.0
	}
}
