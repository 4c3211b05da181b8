package entity

import "strconv"

// FormatRupiah renders an integer rupiah amount the way the storefront shows
// money everywhere: "Rp 1.000.000".
func FormatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	prefix := "Rp "
	if negative {
		prefix = "-Rp "
	}
	return prefix + string(out)
}
