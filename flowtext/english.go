package flowtext

// English language catalog.
var English = &Catalog{
	ID:   "en",
	Name: "English",

	Title: "ETO Smart Zone",

	Config: Flow{
		Step: map[string]Step{
			"user": {
				Title:       "Add smart zone",
				Description: "Create a new irrigation zone whose runtime is calculated from evapotranspiration and rainfall.",
				Data: map[string]string{
					FieldName: "Zone name",
				},
				DataDescription: map[string]string{
					FieldName: "A unique name for this irrigation zone.",
				},
			},
			"init": {
				Title:       "Zone parameters",
				Description: "Select the sensors and watering parameters for this zone.",
				Data: map[string]string{
					FieldEToEntityID:  "Reference evapotranspiration entity",
					FieldRainEntityID: "Rainfall entity",
					FieldThroughput:   "Throughput",
					FieldScale:        "Scale factor",
					FieldMaxMinutes:   "Maximum runtime",
				},
				DataDescription: map[string]string{
					FieldEToEntityID:  "Sensor providing the daily reference evapotranspiration (ETo) in mm.",
					FieldRainEntityID: "Sensor providing the daily rainfall in mm.",
					FieldThroughput:   "Water output rate of the zone in mm/h.",
					FieldScale:        "Percentage applied to the calculated runtime.",
					FieldMaxMinutes:   "Upper bound for the calculated runtime in minutes.",
				},
			},
		},
		Error: map[string]string{
			ErrorAlreadyConfigured: "A zone with this name is already configured.",
			ErrorUnknown:           "Unexpected error, check the logs for details.",
		},
	},

	Options: Flow{
		Step: map[string]Step{
			"init": {
				Title:       "Zone parameters",
				Description: "Adjust the sensors and watering parameters for this zone.",
				Data: map[string]string{
					FieldEToEntityID:  "Reference evapotranspiration entity",
					FieldRainEntityID: "Rainfall entity",
					FieldThroughput:   "Throughput",
					FieldScale:        "Scale factor",
					FieldMaxMinutes:   "Maximum runtime",
				},
				DataDescription: map[string]string{
					FieldEToEntityID:  "Sensor providing the daily reference evapotranspiration (ETo) in mm.",
					FieldRainEntityID: "Sensor providing the daily rainfall in mm.",
					FieldThroughput:   "Water output rate of the zone in mm/h.",
					FieldScale:        "Percentage applied to the calculated runtime.",
					FieldMaxMinutes:   "Upper bound for the calculated runtime in minutes.",
				},
			},
		},
	},

	Services: Services{
		Reload: Service{
			Name:        "[%key:common::action::reload%]",
			Description: "Reload the zone configuration from disk without restarting.",
		},
	},

	common: map[string]string{
		"common::action::reload": "Reload",
	},
}
