package flowtext

// German language catalog.
var German = &Catalog{
	ID:   "de",
	Name: "Deutsch",

	Title: "ETO Smart Zone",

	Config: Flow{
		Step: map[string]Step{
			"user": {
				Title:       "Smarte Zone hinzufügen",
				Description: "Neue Bewässerungszone anlegen, deren Laufzeit aus Verdunstung und Niederschlag berechnet wird.",
				Data: map[string]string{
					FieldName: "Zonenname",
				},
				DataDescription: map[string]string{
					FieldName: "Ein eindeutiger Name für diese Bewässerungszone.",
				},
			},
			"init": {
				Title:       "Zonenparameter",
				Description: "Sensoren und Bewässerungsparameter für diese Zone auswählen.",
				Data: map[string]string{
					FieldEToEntityID:  "Referenzverdunstungs-Entität",
					FieldRainEntityID: "Niederschlags-Entität",
					FieldThroughput:   "Durchsatz",
					FieldScale:        "Skalierungsfaktor",
					FieldMaxMinutes:   "Maximale Laufzeit",
				},
				DataDescription: map[string]string{
					FieldEToEntityID:  "Sensor für die tägliche Referenzverdunstung (ETo) in mm.",
					FieldRainEntityID: "Sensor für den täglichen Niederschlag in mm.",
					FieldThroughput:   "Wasserdurchsatz der Zone in mm/h.",
					FieldScale:        "Prozentsatz, der auf die berechnete Laufzeit angewendet wird.",
					FieldMaxMinutes:   "Obergrenze für die berechnete Laufzeit in Minuten.",
				},
			},
		},
		Error: map[string]string{
			ErrorAlreadyConfigured: "Eine Zone mit diesem Namen ist bereits konfiguriert.",
			ErrorUnknown:           "Unerwarteter Fehler, Details im Protokoll.",
		},
	},

	Options: Flow{
		Step: map[string]Step{
			"init": {
				Title:       "Zonenparameter",
				Description: "Sensoren und Bewässerungsparameter für diese Zone anpassen.",
				Data: map[string]string{
					FieldEToEntityID:  "Referenzverdunstungs-Entität",
					FieldRainEntityID: "Niederschlags-Entität",
					FieldThroughput:   "Durchsatz",
					FieldScale:        "Skalierungsfaktor",
					FieldMaxMinutes:   "Maximale Laufzeit",
				},
				DataDescription: map[string]string{
					FieldEToEntityID:  "Sensor für die tägliche Referenzverdunstung (ETo) in mm.",
					FieldRainEntityID: "Sensor für den täglichen Niederschlag in mm.",
					FieldThroughput:   "Wasserdurchsatz der Zone in mm/h.",
					FieldScale:        "Prozentsatz, der auf die berechnete Laufzeit angewendet wird.",
					FieldMaxMinutes:   "Obergrenze für die berechnete Laufzeit in Minuten.",
				},
			},
		},
	},

	Services: Services{
		Reload: Service{
			Name:        "[%key:common::action::reload%]",
			Description: "Zonenkonfiguration ohne Neustart von der Festplatte neu laden.",
		},
	},

	common: map[string]string{
		"common::action::reload": "Neu laden",
	},
}
