package analytics

// Regression is an ordinary least-squares line over x = 0..n-1
type Regression struct {
	Slope     float64
	Intercept float64
	Points    int
}

// LinearRegression fits ys indexed from zero. With fewer than two points, or
// a zero denominator, the line is flat at the mean.
func LinearRegression(ys []float64) Regression {
	n := float64(len(ys))
	if len(ys) == 0 {
		return Regression{}
	}

	var sumY, sumXY float64
	for i, y := range ys {
		sumY += y
		sumXY += float64(i) * y
	}
	mean := sumY / n
	if len(ys) < 2 {
		return Regression{Intercept: mean, Points: len(ys)}
	}

	sumX := n * (n - 1) / 2
	sumX2 := n * (n - 1) * (2*n - 1) / 6
	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return Regression{Intercept: mean, Points: len(ys)}
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	return Regression{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
		Points:    len(ys),
	}
}

func (r Regression) At(x float64) float64 {
	return r.Slope*x + r.Intercept
}

func (r Regression) Trend() string {
	if r.Points < 2 {
		return TrendStable
	}
	if r.Slope > 0 {
		return TrendIncreasing
	}
	return TrendDecreasing
}

func (r Regression) Summary() SeriesTrend {
	return SeriesTrend{
		Slope:     round(r.Slope, 4),
		Intercept: round(r.Intercept, 4),
		Trend:     r.Trend(),
	}
}
