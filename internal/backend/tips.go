package backend

import "github.com/unan-salud/salud-al-paso/internal/records"

// HealthTips returns the fixed tip catalogue served by GET /api/health-tips.
func HealthTips() []records.HealthTip {
	return []records.HealthTip{
		{
			ID:       "tip-1",
			Title:    "Hidratación Diaria",
			Content:  "Bebe al menos 8 vasos de agua al día para mantener tu cuerpo hidratado y ayudar a tu organismo a funcionar correctamente.",
			Category: records.CategoryNutrition,
			IsActive: true,
		},
		{
			ID:       "tip-2",
			Title:    "Ejercicio Regular",
			Content:  "Realiza al menos 30 minutos de actividad física moderada 5 días a la semana para mantener un corazón saludable.",
			Category: records.CategoryExercise,
			IsActive: true,
		},
		{
			ID:       "tip-3",
			Title:    "Descanso Adecuado",
			Content:  "Duerme entre 7-9 horas cada noche para permitir que tu cuerpo se recupere y tu mente se regenere.",
			Category: records.CategoryRest,
			IsActive: true,
		},
		{
			ID:       "tip-4",
			Title:    "Alimentación Balanceada",
			Content:  "Incluye frutas, verduras, proteínas magras y granos enteros en tu dieta diaria para obtener todos los nutrientes necesarios.",
			Category: records.CategoryNutrition,
			IsActive: true,
		},
		{
			ID:       "tip-5",
			Title:    "Chequeos Médicos",
			Content:  "Realiza chequeos médicos regulares para detectar problemas de salud a tiempo y mantener un historial médico actualizado.",
			Category: records.CategoryPrevention,
			IsActive: true,
		},
		{
			ID:       "tip-6",
			Title:    "Manejo del Estrés",
			Content:  "Practica técnicas de relajación como meditación, yoga o respiración profunda para reducir el estrés diario.",
			Category: records.CategoryMental,
			IsActive: true,
		},
	}
}
