package catalog

import "unicode"

// naturalCompare orders strings treating embedded digit runs as numbers,
// case-insensitively: "Ep 2" sorts before "Ep 10". Returns <0, 0, >0.
func naturalCompare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0

	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]

		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			// Compare whole digit runs by numeric value.
			ia := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			jb := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}

			na := trimLeadingZeros(ra[ia:i])
			nb := trimLeadingZeros(rb[jb:j])
			if len(na) != len(nb) {
				return len(na) - len(nb)
			}
			for k := range na {
				if na[k] != nb[k] {
					return int(na[k]) - int(nb[k])
				}
			}
			continue
		}

		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			return int(la) - int(lb)
		}
		i++
		j++
	}

	return (len(ra) - i) - (len(rb) - j)
}

func trimLeadingZeros(digits []rune) []rune {
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	return digits
}
