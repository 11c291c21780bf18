package payments

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Plan is one premium subscription tier. Amounts are whole KES.
type Plan struct {
	Name      string  `json:"name"`
	AmountKES float64 `json:"amount"`
}

var plans = []Plan{
	{Name: "Weekly", AmountKES: 999},
	{Name: "Monthly", AmountKES: 9999},
	{Name: "Yearly", AmountKES: 24999},
}

// Plans returns the fixed premium plan catalog.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByName looks up a plan case-insensitively.
func PlanByName(name string) (Plan, bool) {
	for _, p := range plans {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Plan{}, false
}

const referenceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewReference generates a client-visible payment reference of the form
// premium-<unix-ms>-<9 random base36 chars>.
func NewReference() string {
	var b strings.Builder
	b.WriteString("premium-")
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	b.WriteByte('-')
	for i := 0; i < 9; i++ {
		b.WriteByte(referenceAlphabet[rand.Intn(len(referenceAlphabet))])
	}
	return b.String()
}
