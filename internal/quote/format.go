package quote

import "strconv"

// FormatAmount renders n with comma thousands separators, e.g. 1,250,000.
func FormatAmount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		out = append(out, '-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// FormatKRW renders n as a won amount, e.g. ₩1,250,000.
func FormatKRW(n int64) string {
	return "₩" + FormatAmount(n)
}
