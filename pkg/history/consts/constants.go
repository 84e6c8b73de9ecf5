package consts

const (
	// DefaultDBName is the default database name.
	DefaultDBName = "voyager"

	// TableNamePlans is the default table/collection name for saved plans.
	TableNamePlans = "trip_plans"

	// Column names
	ColPlanID          = "plan_id"
	ColOrigin          = "origin"
	ColDestination     = "destination"
	ColTravelers       = "travelers"
	ColBudget          = "budget"
	ColRecommendations = "recommendations"
	ColCreatedAt       = "created_at"

	// Neo4j specific
	LabelDestination = "Destination"
	LabelPlan        = "Plan"
	RelHasPlan       = "HAS_PLAN"
)
