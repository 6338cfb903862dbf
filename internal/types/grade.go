package types

// Grade identifies one retail fuel price tier.
type Grade string

const (
	GradeRegular  Grade = "regular"
	GradeMidgrade Grade = "midgrade"
	GradePremium  Grade = "premium"
	GradeDiesel   Grade = "diesel"
)

// Grades lists every grade in canonical order. Regular is what a city
// page shows before the selector control is touched.
var Grades = []Grade{GradeRegular, GradeMidgrade, GradePremium, GradeDiesel}

// SelectValue returns the option value the page's fuel-type control
// uses for this grade.
func (g Grade) SelectValue() string {
	switch g {
	case GradeRegular:
		return "1"
	case GradeMidgrade:
		return "2"
	case GradePremium:
		return "3"
	case GradeDiesel:
		return "4"
	}
	return ""
}

func (g Grade) String() string { return string(g) }
