package narrative

import (
	"fmt"
	"strings"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// DayPrompt builds the second-person diary prompt for one day's view. The
// model is instructed to follow the timeline order and to weave file and
// document names into the text instead of listing them.
func DayPrompt(view model.DayView) string {
	var health string
	if h := view.Health; h != nil {
		health = fmt.Sprintf(
			"Datos físicos: Caminaste %d pasos (%.2f km) y quemaste %d calorías. "+
				"Ejercicio registrado: %d min. Sueño: %.2f horas.",
			h.Steps, h.DistanceKm, int(h.Calories), int(h.ExerciseMin), h.SleepHours)
	} else {
		health = "Sin datos físicos registrados."
	}

	var tl strings.Builder
	if len(view.Timeline) == 0 {
		tl.WriteString("No hubo eventos ni fotos registradas.")
	} else {
		for _, item := range view.Timeline {
			tl.WriteString("- " + item.Text + "\n")
		}
	}

	var docs strings.Builder
	if len(view.Docs) == 0 {
		docs.WriteString("Sin gestión documental.")
	} else {
		for _, d := range view.Docs {
			fmt.Fprintf(&docs, "- Doc ID %s: '%s' (Archivo: %s, %s págs).\n",
				d.ID, d.Title, d.Filename, d.PageCount)
		}
	}

	return fmt.Sprintf(`Actua como un narrador personal meticuloso. Resume mi dia %s en SEGUNDA PERSONA ("El dia %s hiciste...", "Registraste...").
Tu objetivo es contar una historia coherente que integre TODOS los datos.

INSTRUCCIONES:
1. Sigue estrictamente el orden de la AGENDA (Timeline).
2. Integra los nombres de los archivos de fotos y documentos de forma natural en el texto.
3. NO inventes nada.
4. Termina con el resumen de salud.
5. Habla en segunda persona y en pasado.

[AGENDA Y FOTOS - CRONOLOGICO]
%s
[DOCUMENTOS PROCESADOS]
%s
[ESTADISTICAS DE SALUD]
%s

Escribe el resumen ahora:
`, view.Day, view.Day, tl.String(), docs.String(), health)
}

// HealthPrompt builds the single-sentence activity summary prompt used by
// the standalone health digest.
func HealthPrompt(day dates.Day, h model.HealthDay) string {
	data := fmt.Sprintf(`Fecha: %s
Pasos: %d
Distancia: %.2f km
Ejercicio: %d minutos
Sueño: %.1f horas
Calorías: %d kcal`, day, h.Steps, h.DistanceKm, int(h.ExerciseMin), h.SleepHours, int(h.Calories))

	return fmt.Sprintf(`Genera un resumen narrativo de UN DÍA de actividad física en una sola frase.

Datos del día:
%s

IMPORTANTE:
- Una sola frase en español
- Solo menciona datos que sean > 0
- Usa comas para separar y "y" antes del último elemento

Responde SOLO con la frase, sin explicaciones.`, data)
}

// EmptyDayMessage is returned instead of a model call when the day carries
// nothing to narrate.
const EmptyDayMessage = "El día está vacío, no hay suficientes datos para generar un resumen."

// Empty reports whether a day view has nothing worth narrating.
func Empty(view model.DayView) bool {
	noHealth := view.Health == nil || view.Health.Steps == 0
	return len(view.Timeline) == 0 && noHealth && len(view.Docs) == 0
}
