package planner

import (
	"fmt"
	"strings"

	"github.com/barekit/voyager/pkg/knowledge"
)

// Index names for the retrieval-backed categories.
const (
	IndexHotels    = "hotels"
	IndexTransport = "transport"
	IndexPlaces    = "tourist-places"
)

// Params carries the per-category slice of a trip request. Budget is the
// category's allocated share, zero for categories that receive none.
type Params struct {
	Origin      string
	Destination string
	Travelers   int
	Budget      float64
}

// AgentConfig defines one category pipeline as data: its index (empty when
// the category needs no retrieval) and its query and prompt builders. The
// set of configs is fixed at startup and immutable afterwards.
type AgentConfig struct {
	Category    Category
	Index       string
	BuildQuery  func(Params) string
	BuildPrompt func(Params, []knowledge.Record) string
}

// DefaultConfigs returns the fixed four-category configuration.
func DefaultConfigs() []AgentConfig {
	return []AgentConfig{
		{
			Category:    CategoryHotels,
			Index:       IndexHotels,
			BuildQuery:  hotelQuery,
			BuildPrompt: hotelPrompt,
		},
		{
			Category:    CategoryTransport,
			Index:       IndexTransport,
			BuildQuery:  transportQuery,
			BuildPrompt: transportPrompt,
		},
		{
			Category:    CategoryExpenses,
			BuildPrompt: expensePrompt,
		},
		{
			Category:    CategoryAttractions,
			Index:       IndexPlaces,
			BuildQuery:  attractionQuery,
			BuildPrompt: attractionPrompt,
		},
	}
}

func hotelQuery(p Params) string {
	return fmt.Sprintf("Find hotels in %s for %d people with budget %.0f", p.Destination, p.Travelers, p.Budget)
}

func transportQuery(p Params) string {
	return fmt.Sprintf("Find transport from %s to %s", p.Origin, p.Destination)
}

func attractionQuery(p Params) string {
	return fmt.Sprintf("Find tourist places in %s", p.Destination)
}

// renderContext turns retrieved records into a bulleted block for prompt
// interpolation. An empty context is stated explicitly so the model falls
// back on general knowledge instead of inventing citations.
func renderContext(records []knowledge.Record) string {
	if len(records) == 0 {
		return "(no curated options on file; use general knowledge)"
	}
	var b strings.Builder
	for _, r := range records {
		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(r.Text))
		b.WriteString("\n")
	}
	return b.String()
}

func hotelPrompt(p Params, records []knowledge.Record) string {
	return fmt.Sprintf(`Based on these hotel options:
%s
Provide hotel recommendations for %d travelers to %s with a budget of %.2f.

Format the response as:

🏨 Available Hotels:
- [Hotel name] - [Price range] - [Brief description]
- [Hotel name] - [Price range] - [Brief description]

💡 Best Options:
- For luxury: [recommendation]
- For budget: [recommendation]
- For families: [recommendation]
`, renderContext(records), p.Travelers, p.Destination, p.Budget)
}

func transportPrompt(p Params, records []knowledge.Record) string {
	return fmt.Sprintf(`Based on these transport options:
%s
Provide transport recommendations from %s to %s for %d travelers with a budget of %.2f.

Format the response as:

🚌 Available Options:
- [Transport mode] - [Duration] - [Price range]
- [Transport mode] - [Duration] - [Price range]

💡 Recommended Route:
- Fastest: [recommendation]
- Most comfortable: [recommendation]
- Budget-friendly: [recommendation]
`, renderContext(records), p.Origin, p.Destination, p.Travelers, p.Budget)
}

func attractionPrompt(p Params, records []knowledge.Record) string {
	return fmt.Sprintf(`Based on these attractions:
%s
Provide tourist recommendations for %s for %d travelers.

Format the response as:

🗺️ Must Visit Places:
- [Attraction] - [Why it's special]
- [Attraction] - [Why it's special]

🍴 Local Food:
- [Food item] - [Brief description]
- [Food item] - [Brief description]

💡 Travel Tips:
- [Practical tip for the destination]
- [Practical tip for the destination]
`, renderContext(records), p.Destination, p.Travelers)
}

func expensePrompt(p Params, _ []knowledge.Record) string {
	return fmt.Sprintf(`Create a detailed expense breakdown for a trip to %s.

Trip Details:
- Daily expense budget: %.2f
- Number of Travelers: %d

Format the response as:

💰 Daily Expenses (per person):
• Food: [amount]/day
• Local Transport: [amount]/day
• Activities: [amount]/day
• Miscellaneous: [amount]/day

🏨 Accommodation:
• Budget options: [amount] per night
• Mid-range options: [amount] per night
• Luxury options: [amount] per night

✈️ Travel Costs:
• Round-trip transportation: [amount] per person

💡 Money-Saving Tips:
• [Practical tip for saving money]
• [Practical tip for saving money]
`, p.Destination, p.Budget, p.Travelers)
}
