package catalog

import "github.com/juniu86/rr-guanabara/internal/domain/models"

var statusLabels = map[models.ItemStatus]string{
	models.ItemConfere:         "Confere",
	models.ItemNaoConferido:    "Não Conferido",
	models.ItemRealizarLimpeza: "Realizar Limpeza",
	models.ItemRealizarReparo:  "Realizar Reparo",
	models.ItemRealizarTroca:   "Realizar Troca",
}

// StatusLabel returns the printed label of s. Unknown values pass through unchanged.
func StatusLabel(s models.ItemStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Statuses from the Word reports used before the system existed.
var legacyStatus = map[string]models.ItemStatus{
	"Conforme":     models.ItemConfere,
	"Não Conforme": models.ItemRealizarReparo,
	"Crítico":      models.ItemRealizarTroca,
	"Monitorar":    models.ItemNaoConferido,
	"Não possui":   models.ItemNaoConferido,
}

// MapLegacyStatus converts a legacy report status. Unknown values map to confere.
func MapLegacyStatus(s string) models.ItemStatus {
	if status, ok := legacyStatus[s]; ok {
		return status
	}
	return models.ItemConfere
}
