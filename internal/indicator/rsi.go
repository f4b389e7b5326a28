package indicator

import "github.com/shaitanu/breakout-finder/internal/domain"

// fillRSI sets the Wilder-smoothed RSI of Close per bar. The seed average
// covers the first RSIPeriod changes, so the indicator is defined for
// i >= RSIPeriod. A series with zero average loss reads as 100.
func fillRSI(bars []domain.Bar, out []domain.IndicatorBar) {
	if len(bars) <= RSIPeriod {
		return
	}

	var avgGain, avgLoss float64
	for i := 1; i <= RSIPeriod; i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= RSIPeriod
	avgLoss /= RSIPeriod
	out[RSIPeriod].RSI14 = rsiFrom(avgGain, avgLoss)

	for i := RSIPeriod + 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(RSIPeriod-1) + gain) / RSIPeriod
		avgLoss = (avgLoss*(RSIPeriod-1) + loss) / RSIPeriod
		out[i].RSI14 = rsiFrom(avgGain, avgLoss)
	}
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
