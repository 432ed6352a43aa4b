// Package dept validates department affiliation codes against the fixed
// college-of-education roster.
package dept

import "strings"

// labels maps each allowed code to its display label.
var labels = map[string]string{
	"ko":   "국어교육과",
	"en":   "영어교육과",
	"soc":  "사회교육과",
	"geo":  "지리교육과",
	"eth":  "윤리교육과",
	"math": "수학교육과",
	"sci":  "과학교육학부",
	"com":  "컴퓨터교육과",
	"pe":   "체육교육과",
}

// Validate lower-cases a submitted department code and checks it against the
// roster. An empty code is allowed and means "no affiliation". Unknown codes
// are rejected, including the retired "ce" code.
func Validate(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	c := strings.ToLower(strings.TrimSpace(code))
	if _, ok := labels[c]; !ok {
		return "", ErrInvalidDept
	}
	return c, nil
}

// Label returns the display label for a validated code, or "" for none.
func Label(code string) string {
	return labels[code]
}

// Codes returns the allowed codes in unspecified order.
func Codes() []string {
	out := make([]string, 0, len(labels))
	for c := range labels {
		out = append(out, c)
	}
	return out
}
