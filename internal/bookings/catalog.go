package bookings

// Clinic is one bookable location. The catalog is fixed; there is no clinic
// management surface.
type Clinic struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating"`
}

var clinics = []Clinic{
	{ID: "1", Name: "City Medical Center", Location: "Downtown", Rating: 4.8},
	{ID: "2", Name: "HealthPlus Clinic", Location: "Westlands", Rating: 4.9},
	{ID: "3", Name: "Family Care Hospital", Location: "Karen", Rating: 4.7},
	{ID: "4", Name: "Wellness Medical Center", Location: "Kilimani", Rating: 4.6},
}

var timeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
}

// Clinics returns the fixed clinic catalog.
func Clinics() []Clinic {
	out := make([]Clinic, len(clinics))
	copy(out, clinics)
	return out
}

// TimeSlots returns the enumerated appointment start times.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// ClinicByID looks a clinic up by id.
func ClinicByID(id string) (Clinic, bool) {
	for _, c := range clinics {
		if c.ID == id {
			return c, true
		}
	}
	return Clinic{}, false
}

// ValidSlot reports whether slot is one of the enumerated times.
func ValidSlot(slot string) bool {
	for _, s := range timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
