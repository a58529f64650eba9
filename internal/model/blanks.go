package model

import "math"

// BlankEstimate answers "how many circular blanks do I need" for a target
// number of rectangles, given how many fit on one blank.
type BlankEstimate struct {
	Required       int     `json:"required"`         // Rectangles needed
	PerBlank       int     `json:"per_blank"`        // Rectangles packed per blank
	BlanksExact    float64 `json:"blanks_exact"`     // Fractional blanks
	BlanksMin      int     `json:"blanks_min"`       // Ceiling of BlanksExact
	BlanksWithLoss int     `json:"blanks_with_loss"` // Including the scrap/loss factor
	LossPercent    float64 `json:"loss_percent"`
	Surplus        int     `json:"surplus"` // Rectangles produced beyond Required
	PricePerBlank  float64 `json:"price_per_blank"`
	EstimatedCost  float64 `json:"estimated_cost"`
}

// EstimateBlanks computes how many blanks to buy. A perBlank of zero means
// nothing fits and only the inputs are echoed back.
func EstimateBlanks(required, perBlank int, lossPercent, pricePerBlank float64) BlankEstimate {
	est := BlankEstimate{
		Required:      required,
		PerBlank:      perBlank,
		LossPercent:   lossPercent,
		PricePerBlank: pricePerBlank,
	}
	if perBlank <= 0 || required <= 0 {
		return est
	}

	est.BlanksExact = float64(required) / float64(perBlank)
	est.BlanksMin = int(math.Ceil(est.BlanksExact))

	withLoss := int(math.Ceil(est.BlanksExact * (1.0 + lossPercent/100.0)))
	if withLoss < est.BlanksMin {
		withLoss = est.BlanksMin
	}
	est.BlanksWithLoss = withLoss
	est.Surplus = withLoss*perBlank - required
	est.EstimatedCost = float64(withLoss) * pricePerBlank
	return est
}
