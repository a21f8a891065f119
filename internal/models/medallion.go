package models

// Grade is the display grade attached to a Medallion category score.
type Grade string

// Category grades, best to worst.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// Medallion category names in report order.
const (
	CategoryTechnique     = "technique"
	CategoryMustWin       = "must_win"
	CategoryAbsences      = "absences"
	CategoryHomeAdvantage = "home_advantage"
	CategoryTactics       = "tactics"
	CategoryForm          = "form"
	CategoryPerformance   = "performance"
)

// CategoryKeys lists the seven Medallion categories in report order.
var CategoryKeys = []string{
	CategoryTechnique,
	CategoryMustWin,
	CategoryAbsences,
	CategoryHomeAdvantage,
	CategoryTactics,
	CategoryForm,
	CategoryPerformance,
}

// CategoryScore is one category result for one team.
type CategoryScore struct {
	Score int   `json:"score"`
	Grade Grade `json:"grade"`
}

// MedallionResult is the aggregated seven-category score for both teams and
// the AH line it recommends, from the home perspective.
type MedallionResult struct {
	HomeTotal       int                      `json:"home_total"`
	AwayTotal       int                      `json:"away_total"`
	HomeCategories  map[string]CategoryScore `json:"home_categories"`
	AwayCategories  map[string]CategoryScore `json:"away_categories"`
	RecommendedLine float64                  `json:"recommended_line"`
}
