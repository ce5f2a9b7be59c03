package render

import (
	"github.com/i474232898/harvest-advisor/internal/advisory"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
)

type text struct {
	es, en string
}

type triggerMessage struct {
	text
	// args returns the format arguments; variety is the display name of the plant.
	args func(t advisory.Trigger, variety string) []any
}

func valueRange(t advisory.Trigger, _ string) []any { return []any{t.Value, t.Min, t.Max} }
func varietyOnly(_ advisory.Trigger, v string) []any { return []any{v} }
func varietyRange(t advisory.Trigger, v string) []any {
	return []any{t.Value, v, t.Min, t.Max}
}
func countOnly(t advisory.Trigger, _ string) []any { return []any{t.Count} }

// lateSuffix selects the late-flowering variant of a message when one exists.
const lateSuffix = ".late"

var triggerMessages = map[string]triggerMessage{
	string(advisory.TriggerHailAlert): {text{
		es: "¡Alerta de granizo activa! (%s) Protege las plantas con malla antigranizo o resguárdalas; si la planta está cerca de su punto óptimo, considera cosechar antes.",
		en: "Active hail alert! (%s) Protect plants with hail netting or move them under cover; if the plant is close to its peak, consider harvesting early.",
	}, func(t advisory.Trigger, _ string) []any { return []any{t.Title} }},
	string(advisory.TriggerHailForecast): {text{
		es: "Probabilidad de granizo del %.0f%% en los próximos días. Prepara protección para tus plantas.",
		en: "%.0f%% chance of hail in the coming days. Have protection ready for your plants.",
	}, func(t advisory.Trigger, _ string) []any { return []any{t.Probability} }},

	string(advisory.TriggerTemperatureLow): {text{
		es: "La temperatura actual de %.1f°C está por debajo del rango óptimo para tu %s. Mantén temperaturas entre %.0f°C y %.0f°C.",
		en: "The current temperature of %.1f°C is below the optimal range for your %s. Keep temperatures between %.0f°C and %.0f°C.",
	}, varietyRange},
	string(advisory.TriggerTemperatureLow) + lateSuffix: {text{
		es: "La temperatura actual de %.1f°C es demasiado baja para tu %s en floración tardía; puede ralentizar la maduración y aumentar el riesgo de moho. Mantén temperaturas entre %.0f°C y %.0f°C.",
		en: "The current temperature of %.1f°C is too low for your %s in late flowering; it can slow final ripening and raise mould risk. Keep temperatures between %.0f°C and %.0f°C.",
	}, varietyRange},
	string(advisory.TriggerTemperatureHigh): {text{
		es: "La temperatura actual de %.1f°C excede el rango óptimo para tu %s. Mejora la ventilación o da sombra para mantener entre %.0f°C y %.0f°C.",
		en: "The current temperature of %.1f°C exceeds the optimal range for your %s. Improve ventilation or add shade to stay between %.0f°C and %.0f°C.",
	}, varietyRange},
	string(advisory.TriggerTemperatureHigh) + lateSuffix: {text{
		es: "La temperatura actual de %.1f°C es demasiado alta para tu %s en floración tardía; acelera la degradación de cannabinoides. Considera cosechar pronto o baja la temperatura a entre %.0f°C y %.0f°C.",
		en: "The current temperature of %.1f°C is too high for your %s in late flowering; it speeds up cannabinoid degradation. Consider harvesting soon or bring it down to between %.0f°C and %.0f°C.",
	}, varietyRange},
	string(advisory.TriggerHumidityLow): {text{
		es: "La humedad actual del %.0f%% está por debajo del rango óptimo para tu %s. Auméntala a entre %.0f%% y %.0f%%.",
		en: "The current humidity of %.0f%% is below the optimal range for your %s. Raise it to between %.0f%% and %.0f%%.",
	}, varietyRange},
	string(advisory.TriggerHumidityHigh): {text{
		es: "La humedad actual del %.0f%% es demasiado alta para tu %s y favorece los hongos. Mejora la circulación de aire para bajarla a entre %.0f%% y %.0f%%.",
		en: "The current humidity of %.0f%% is too high for your %s and encourages fungus. Improve air circulation to bring it to between %.0f%% and %.0f%%.",
	}, varietyRange},
	string(advisory.TriggerHumidityHigh) + lateSuffix: {text{
		es: "¡Alerta! La humedad del %.0f%% es muy alta para tu %s en floración tardía: alto riesgo de moho y podredumbre de cogollos. Usa un deshumidificador o considera cosechar pronto. Lo ideal es entre %.0f%% y %.0f%%.",
		en: "Warning! Humidity of %.0f%% is very high for your %s in late flowering: high risk of mould and bud rot. Use a dehumidifier or consider harvesting soon. Aim for between %.0f%% and %.0f%%.",
	}, varietyRange},
	string(advisory.TriggerUVLow): {text{
		es: "El índice UV de %.1f está por debajo del rango óptimo (%.0f–%.0f). Aumenta la exposición a la luz si es posible.",
		en: "The UV index of %.1f is below the optimal range (%.0f–%.0f). Increase light exposure if possible.",
	}, valueRange},
	string(advisory.TriggerUVHigh): {text{
		es: "El índice UV de %.1f supera el rango óptimo (%.0f–%.0f). Proporciona sombra parcial en las horas de mayor radiación.",
		en: "The UV index of %.1f is above the optimal range (%.0f–%.0f). Provide partial shade during peak sun hours.",
	}, valueRange},

	string(advisory.TriggerTemperatureSwing): {text{
		es: "Se prevén cambios significativos de temperatura en los próximos días. Prepárate para ajustar las condiciones de cultivo.",
		en: "Significant temperature changes are expected in the coming days. Be ready to adjust growing conditions.",
	}, nil},
	string(advisory.TriggerRain): {text{
		es: "Se prevén lluvias en los próximos días. Protege tus plantas si están en exterior.",
		en: "Rain is expected in the coming days. Protect your plants if they are outdoors.",
	}, nil},
	string(advisory.TriggerRain) + lateSuffix: {text{
		es: "ALERTA: se prevén lluvias en los próximos días. En floración tardía considera cosechar antes para evitar moho.",
		en: "WARNING: rain is expected in the coming days. In late flowering consider harvesting early to avoid mould.",
	}, nil},
	string(advisory.TriggerHumidSpell): {text{
		es: "ALERTA: se prevén %d días de alta humedad. El riesgo de moho aumenta considerablemente en floración avanzada.",
		en: "WARNING: %d days of high humidity are forecast. Mould risk rises sharply in advanced flowering.",
	}, countOnly},
	string(advisory.TriggerHeatSpell): {text{
		es: "Se prevén %d días de temperaturas elevadas. Asegura buena ventilación.",
		en: "%d days of high temperatures are forecast. Make sure ventilation is adequate.",
	}, countOnly},
	string(advisory.TriggerColdSpell): {text{
		es: "Se prevén %d días de temperaturas bajas. Considera cómo mantener el calor durante la noche.",
		en: "%d cold days are forecast. Consider how to keep plants warm overnight.",
	}, countOnly},

	string(advisory.TriggerEarlyIdeal): {text{
		es: "Las condiciones actuales son ideales para el desarrollo temprano de flores en tu %s. Mantén estos niveles.",
		en: "Current conditions are ideal for early flower development in your %s. Keep these levels.",
	}, varietyOnly},
	string(advisory.TriggerEarlyUV): {text{
		es: "Tu %s en floración temprana necesita luz suficiente, pero el exceso de UV directo la estresa. Da sombra parcial en las horas de más sol.",
		en: "Your %s in early flowering needs enough light, but too much direct UV stresses it. Give partial shade during the sunniest hours.",
	}, varietyOnly},
	string(advisory.TriggerMidUnstable): {text{
		es: "Tu %s está en floración media, donde es clave mantener condiciones estables. Evita cambios bruscos de temperatura y humedad.",
		en: "Your %s is in mid flowering, where stable conditions are key. Avoid sudden swings in temperature and humidity.",
	}, varietyOnly},
	string(advisory.TriggerMidFavorable): {text{
		es: "Tu %s está en floración media con condiciones favorables. Mantenlas estables mientras los cogollos ganan tamaño y densidad.",
		en: "Your %s is in mid flowering with favourable conditions. Keep them steady while buds gain size and density.",
	}, varietyOnly},
	string(advisory.TriggerLateMoldRisk): {text{
		es: "¡Atención! En floración tardía la humedad alta es un riesgo serio de moho para tu %s. Considera cosechar antes si no puedes bajarla por debajo del %.0f%%.",
		en: "Attention! In late flowering high humidity is a serious mould risk for your %s. Consider harvesting early if you cannot bring it below %.0f%%.",
	}, func(t advisory.Trigger, v string) []any { return []any{v, t.Max} }},
	string(advisory.TriggerLateTrichomes) + ".favorable": {text{
		es: "Tu %s está en la fase final de maduración. Revisa los tricomas a diario con lupa o microscopio. El clima actual puede favorecer la maduración final.",
		en: "Your %s is in its final ripening phase. Check the trichomes daily with a loupe or microscope. Current weather may favour final ripening.",
	}, varietyOnly},
	string(advisory.TriggerLateTrichomes): {text{
		es: "Tu %s está en la fase final de maduración. Revisa los tricomas a diario con lupa o microscopio. El clima actual puede alterar la maduración final.",
		en: "Your %s is in its final ripening phase. Check the trichomes daily with a loupe or microscope. Current weather may disrupt final ripening.",
	}, varietyOnly},

	string(advisory.TriggerIndicaMold): {text{
		es: "Las variedades Indica son más susceptibles al moho. Presta especial atención a la ventilación y la humedad.",
		en: "Indica varieties are more prone to mould. Pay close attention to ventilation and humidity.",
	}, nil},
	string(advisory.TriggerSativaWarmth): {text{
		es: "Las variedades Sativa prefieren temperaturas más cálidas. Mantén temperaturas adecuadas, sobre todo de noche.",
		en: "Sativa varieties prefer warmer temperatures. Keep temperatures up, especially at night.",
	}, nil},
	string(advisory.TriggerOptimal): {text{
		es: "Las condiciones climáticas actuales son óptimas para la etapa actual de la planta.",
		en: "Current weather conditions are optimal for the plant's current stage.",
	}, nil},
	string(advisory.TriggerAcceptable): {text{
		es: "Las condiciones climáticas actuales son aceptables, pero mantén un monitoreo regular de la planta.",
		en: "Current weather conditions are acceptable, but keep monitoring the plant regularly.",
	}, nil},
}

const (
	keyHarvestNow  = "adjustment.harvest_now"
	keyNoChange    = "adjustment.none"
	keyAdvance     = "adjustment.advance"
	keyDelay       = "adjustment.delay"
	keyYourPlant   = "your_plant"
	keyImpactLevel = "impact."
	keyPreference  = "preference."
)

var plainMessages = map[string]text{
	keyHarvestNow: {es: "Cosecha inmediata recomendada.", en: "Immediate harvest recommended."},
	keyNoChange:   {es: "Sin ajuste de la fecha de cosecha.", en: "No change to the harvest date."},
	keyAdvance:    {es: "Adelanta la cosecha %d días.", en: "Bring the harvest forward by %d days."},
	keyDelay:      {es: "Retrasa la cosecha %d días.", en: "Delay the harvest by %d days."},
	keyYourPlant:  {es: "planta", en: "plant"},

	keyImpactLevel + advisory.Positive.String(): {es: "favorable", en: "favourable"},
	keyImpactLevel + advisory.Neutral.String():  {es: "neutral", en: "neutral"},
	keyImpactLevel + advisory.Negative.String(): {es: "desfavorable", en: "unfavourable"},
	keyImpactLevel + advisory.Critical.String(): {es: "crítico", en: "critical"},

	keyPreference + string(cannabis.Energetic): {
		es: "Para un efecto energético cosecha con la mayoría de tricomas lechosos y menos del 10%% ámbar.",
		en: "For an energetic effect harvest with mostly milky trichomes and under 10%% amber.",
	},
	keyPreference + string(cannabis.Balanced): {
		es: "Para un efecto equilibrado busca entre un 10%% y un 15%% de tricomas ámbar.",
		en: "For a balanced effect look for 10–15%% amber trichomes.",
	},
	keyPreference + string(cannabis.Relaxing): {
		es: "Para un efecto relajante espera a tener entre un 20%% y un 30%% de tricomas ámbar.",
		en: "For a relaxing effect wait for 20–30%% amber trichomes.",
	},
}
