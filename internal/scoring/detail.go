package scoring

import (
	"math"
	"strconv"
)

// Float is a float64 that marshals non-finite values (NaN, +/-Inf) as JSON
// null instead of failing, so sentinel scores and undefined diagnostics
// survive result serialization.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Detail is the full score breakdown for one (instrument, date) evaluation.
// Invalid details carry the strategy's sentinel in Score and NaN diagnostics.
type Detail struct {
	Score Float `json:"score"`
	Valid bool  `json:"valid"`

	LongSlope     Float `json:"long_slope"`
	LongIntercept Float `json:"long_intercept"`
	Annualized    Float `json:"annualized_return"`
	RSquared      Float `json:"r_squared"`
	LongRaw       Float `json:"long_raw"`
	LongSigmoid   Float `json:"long_sigmoid"`

	ShortSlope   Float `json:"short_slope"`
	ShortRaw     Float `json:"short_raw"`
	ShortSigmoid Float `json:"short_sigmoid"`

	LongStartPrice  Float `json:"long_start_price"`
	LongEndPrice    Float `json:"long_end_price"`
	ShortStartPrice Float `json:"short_start_price"`
	ShortEndPrice   Float `json:"short_end_price"`
}

// newDetail returns a Detail carrying the given score with every diagnostic
// undefined and Valid unset; scorers fill in what they computed.
func newDetail(score float64) Detail {
	nan := Float(math.NaN())
	return Detail{
		Score:           Float(score),
		Valid:           false,
		LongSlope:       nan,
		LongIntercept:   nan,
		Annualized:      nan,
		RSquared:        nan,
		LongRaw:         nan,
		LongSigmoid:     nan,
		ShortSlope:      nan,
		ShortRaw:        nan,
		ShortSigmoid:    nan,
		LongStartPrice:  nan,
		LongEndPrice:    nan,
		ShortStartPrice: nan,
		ShortEndPrice:   nan,
	}
}
