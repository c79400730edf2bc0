package scrapers

import (
	"strings"

	"github.com/joshua-takyi/lankaevents/internal/models"
)

type categoryRule struct {
	category models.Category
	keywords []string
}

// categoryRules are checked in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{models.CategoryTech, []string{"tech", "software", "programming", "ai", "digital"}},
	{models.CategoryConference, []string{"conference", "summit", "symposium"}},
	{models.CategoryWorkshop, []string{"workshop", "training", "seminar"}},
	{models.CategoryFestival, []string{"festival", "celebration", "cultural"}},
	{models.CategoryAcademic, []string{"academic", "research", "university", "education"}},
	{models.CategoryReligious, []string{"religious", "buddhist", "temple", "spiritual"}},
	{models.CategoryBusiness, []string{"business", "entrepreneur", "startup", "networking"}},
	{models.CategorySports, []string{"sport", "game", "tournament", "match"}},
}

// Categorize picks a category from keywords in the title and description.
// Keywords match as substrings, so "ai" also matches inside "training".
// Text with no keyword is a Conference.
func Categorize(title, description string) models.Category {
	text := strings.ToLower(title + " " + description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryConference
}
