package services

import (
	"fmt"

	"github.com/volkiswipe/umfrage/internal/models"
)

type QuestionStore interface {
	ListActiveQuestions() ([]models.Question, error)
}

// QuestionView is a catalog entry enriched for the survey front end.
type QuestionView struct {
	ID           int    `json:"id"`
	Category     string `json:"category"`
	Text         string `json:"text"`
	SortOrder    int    `json:"sort_order"`
	CategoryName string `json:"category_name"`
	CategoryIcon string `json:"category_icon"`
}

// CategoryView pairs a category with its display icon.
type CategoryView struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// categoryIcons maps catalog categories onto their display icons. Categories
// missing here fall back to defaultCategoryIcon.
var categoryIcons = map[string]string{
	"Verkehr & Mobilität":                "🚲",
	"Wohnen & Siedlungsentwicklung":      "🏘️",
	"Bildung & Kinderbetreuung":          "🎓",
	"Wirtschaft & Arbeit":                "💼",
	"Natur, Umwelt & Energie":            "🌳",
	"Infrastruktur & Versorgung":         "🏗️",
	"Gesundheit & Soziales":              "❤️",
	"Kultur, Freizeit & Sport":           "🎨",
	"Sicherheit":                         "🛡️",
	"Finanzen & Steuern":                 "💰",
	"Politik & Verwaltung":               "🏛️",
	"Generationenthemen":                 "👨‍👩‍👧‍👦",
	"Landwirtschaft & Landschaft":        "🌾",
	"Digitalisierung & Innovation":       "💻",
	"Demokratie & Mitbestimmung":         "🗳️",
	"Strategische Entwicklung & Planung": "📊",
	"Zentrum & Ortsteile":                "🏙️",
	"Regionale Zusammenarbeit":           "🤝",
	"Quartierentwicklung":                "🏘️",
}

const defaultCategoryIcon = "📋"

// CategoryIcon resolves the display icon for a category.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultCategoryIcon
}

// QuestionService serves the public catalog for the survey front end.
type QuestionService struct {
	store QuestionStore
}

func NewQuestionService(store QuestionStore) *QuestionService {
	return &QuestionService{store: store}
}

// ListActiveQuestions returns all active questions in sort order, each with
// its category icon, plus the distinct categories in first-seen order.
func (s *QuestionService) ListActiveQuestions() ([]QuestionView, []CategoryView, error) {
	questions, err := s.store.ListActiveQuestions()
	if err != nil {
		return nil, nil, NewInternalError(fmt.Sprintf("could not load questions: %v", err))
	}

	views := make([]QuestionView, 0, len(questions))
	categories := []CategoryView{}
	seen := map[string]bool{}
	for _, q := range questions {
		icon := CategoryIcon(q.Category)
		views = append(views, QuestionView{
			ID:           q.ID,
			Category:     q.Category,
			Text:         q.Text,
			SortOrder:    q.SortOrder,
			CategoryName: q.Category,
			CategoryIcon: icon,
		})
		if !seen[q.Category] {
			seen[q.Category] = true
			categories = append(categories, CategoryView{Name: q.Category, Icon: icon})
		}
	}
	return views, categories, nil
}
