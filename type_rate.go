package waterfall

import "fmt"

// Rate is an annual rate or a split fraction, expressed as a fraction
// (0.08 is 8%).
type Rate float64

func (r Rate) Equal(q Rate) bool {
	// it has to be compared with some precision
	const precision = 1e-6
	diff := r - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (r Rate) String() string {
	return fmt.Sprintf("%.2f%%", float64(r)*100)
}

func (r Rate) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(r)*100)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// isFraction reports whether r lies in [0,1], the valid range for
// ownership shares and promote rates.
func (r Rate) isFraction() bool { return r >= 0 && r <= 1 }
