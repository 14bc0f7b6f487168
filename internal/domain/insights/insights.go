// Package insights computes the read-only dashboard projections over checklist items.
// Everything here is a pure fold: no I/O and no state.
package insights

import (
	"strings"
	"time"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

// RadarPoint is one axis of the conformity radar.
type RadarPoint struct {
	Subject  string `json:"subject"`
	Value    int    `json:"value"`
	FullMark int    `json:"fullMark"`
}

type axis struct {
	subject  string
	keywords []string
	empty    int
}

// Axes in match order. The first axis with a matching keyword wins.
var axes = []axis{
	{"NR-20 Ambiental", []string{"canaleta", "caixa separadora", "spill", "sump", "vazamento"}, 0},
	{"NR-10 Elétrica", []string{"sensor", "painel", "ihm", "intertravamento", "interrupção"}, 0},
	{"Documentação", []string{"veeder", "sistema", "encerrante"}, 0},
	{"Limpeza/5S", []string{"limpeza", "limpar", "sujeira"}, 100},
	{"Metrologia", []string{"aferição", "bico", "calibração", "manômetro", "filtro"}, 0},
}

// fallbackAxis receives items no keyword matched.
const fallbackAxis = 4

// Categorize returns the radar subject an equipment name is counted under.
func Categorize(equipmentName string) string {
	return axes[axisOf(equipmentName)].subject
}

func axisOf(equipmentName string) int {
	name := strings.ToLower(equipmentName)
	for i, a := range axes {
		for _, kw := range a.keywords {
			if strings.Contains(name, kw) {
				return i
			}
		}
	}
	return fallbackAxis
}

// ConformityRadar scores each axis as the rounded share of confere items.
// An empty axis scores 0, except Limpeza/5S which scores 100.
func ConformityRadar(items []models.ChecklistItem) []RadarPoint {
	total := make([]int, len(axes))
	conforme := make([]int, len(axes))
	for _, item := range items {
		i := axisOf(item.EquipmentName)
		total[i]++
		if item.Status == models.ItemConfere {
			conforme[i]++
		}
	}

	points := make([]RadarPoint, len(axes))
	for i, a := range axes {
		value := a.empty
		if total[i] > 0 {
			value = percent(conforme[i], total[i])
		}
		points[i] = RadarPoint{Subject: a.subject, Value: value, FullMark: 100}
	}
	return points
}

// Priority of a follow-up action.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)

// Quest is one entry of the quest log.
type Quest struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Priority      Priority `json:"priority"`
	Status        string   `json:"status"`
	Observations  string   `json:"observations"`
	MaintenanceID uint     `json:"maintenanceId"`
}

// QuestLog lists the items that need limpeza, reparo or troca, in input order.
func QuestLog(items []models.ChecklistItem) []Quest {
	quests := make([]Quest, 0)
	for _, item := range items {
		var action string
		var priority Priority
		switch item.Status {
		case models.ItemRealizarTroca:
			action, priority = "Troca", PriorityCritical
		case models.ItemRealizarReparo:
			action, priority = "Reparo", PriorityHigh
		case models.ItemRealizarLimpeza:
			action, priority = "Limpeza", PriorityMedium
		default:
			continue
		}
		obs := ""
		if item.Observations != nil {
			obs = *item.Observations
		}
		quests = append(quests, Quest{
			ID:            item.ID,
			Title:         action + ": " + item.EquipmentName,
			Priority:      priority,
			Status:        "pending",
			Observations:  obs,
			MaintenanceID: item.MaintenanceID,
		})
	}
	return quests
}

// ActionItems keeps the items marked for reparo or troca, in input order.
func ActionItems(items []models.ChecklistItem) []models.ChecklistItem {
	out := make([]models.ChecklistItem, 0)
	for _, item := range items {
		if item.Status == models.ItemRealizarReparo || item.Status == models.ItemRealizarTroca {
			out = append(out, item)
		}
	}
	return out
}

// ConformePercentage is round(100 * confere / total), 0 with no items.
func ConformePercentage(items []models.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	c := 0
	for _, item := range items {
		if item.Status == models.ItemConfere {
			c++
		}
	}
	return percent(c, len(items))
}

// DashboardStats are the summary cards of the home page.
type DashboardStats struct {
	TotalMaintenances     int        `json:"totalMaintenances"`
	CompletedMaintenances int        `json:"completedMaintenances"`
	ConformePercentage    int        `json:"conformePercentage"`
	PendingActions        int        `json:"pendingActions"`
	LastMaintenanceDate   *time.Time `json:"lastMaintenanceDate,omitempty"`
}

// Stats folds maintenances and their items into the dashboard cards.
func Stats(maintenances []models.Maintenance, items []models.ChecklistItem) DashboardStats {
	s := DashboardStats{
		TotalMaintenances:  len(maintenances),
		ConformePercentage: ConformePercentage(items),
		PendingActions:     len(QuestLog(items)),
	}
	for i := range maintenances {
		m := &maintenances[i]
		if m.Status == models.MaintenanceCompleted || m.Status == models.MaintenanceApproved {
			s.CompletedMaintenances++
		}
		if s.LastMaintenanceDate == nil || m.Date.After(*s.LastMaintenanceDate) {
			d := m.Date
			s.LastMaintenanceDate = &d
		}
	}
	return s
}

// percent rounds half up, like Math.round on a non-negative ratio.
func percent(part, total int) int {
	return (200*part + total) / (2 * total)
}
