package instruments

import (
	"strconv"
	"strings"
)

// ParseFloat decodes one numeric response field.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ParseInt decodes one integer response field. Instruments commonly reply
// with exponent notation even for counts, so a float form is accepted too.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ParseString keeps the response as-is.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseQuoted strips the quoting instruments put around string responses.
func ParseQuoted(s string) (string, error) {
	return strings.Trim(strings.TrimSpace(s), `'"`), nil
}

// ParseFloats decodes a comma-separated list, the format trace and
// stimulus data arrive in.
func ParseFloats(s string) ([]float64, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
