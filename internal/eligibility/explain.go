package eligibility

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Explain lists the constraints of r as display strings. The order is fixed:
// min age, max age, min service, specializations, gender, status, ranks, batch.
// Empty sets are left out.
func Explain(r domain.EligibilityRule) []string {
	out := make([]string, 0, 8)
	if r.MinAge != nil {
		out = append(out, fmt.Sprintf("Min Age: %d years", *r.MinAge))
	}
	if r.MaxAge != nil {
		out = append(out, fmt.Sprintf("Max Age: %d years", *r.MaxAge))
	}
	if r.MinServiceYears != nil {
		out = append(out, fmt.Sprintf("Min Service: %d years", *r.MinServiceYears))
	}
	if len(r.Specializations) > 0 {
		out = append(out, "Specializations: "+strings.Join(r.Specializations, ", "))
	}
	if len(r.Genders) > 0 {
		out = append(out, "Gender: "+joinTitled(r.Genders))
	}
	if len(r.Statuses) > 0 {
		ss := make([]string, len(r.Statuses))
		for i, s := range r.Statuses {
			ss[i] = string(s)
		}
		out = append(out, "Status: "+joinTitled(ss))
	}
	if len(r.Ranks) > 0 {
		out = append(out, "Ranks: "+strings.Join(r.Ranks, ", "))
	}
	if len(r.Batches) > 0 {
		out = append(out, "Batch: "+strings.Join(r.Batches, ", "))
	}
	return out
}

func joinTitled(vs []string) string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = upperFirst(v)
	}
	return strings.Join(out, ", ")
}

// upperFirst capitalises only the first letter; the rest is left as is.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
