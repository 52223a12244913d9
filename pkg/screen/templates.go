package screen

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"geekmagic/pkg/layout"
)

// Template is an immutable screen preset. Template widgets never carry a
// bound data source or label: the first render derives the label from the
// source's own descriptive name once the user binds one.
type Template struct {
	Key         string
	Name        string
	Description string
	Layout      layout.ID
	Widgets     []Widget
}

var templates = map[string]Template{
	"system_monitor": {
		Key:         "system_monitor",
		Name:        "System Monitor",
		Description: "CPU, memory, disk, and network monitoring",
		Layout:      layout.Grid2x2,
		Widgets: []Widget{
			{Slot: 0, Kind: KindGauge, Options: Options{"style": "ring", "min": 0, "max": 100, "unit": "%"}, Hint: "CPU usage sensor"},
			{Slot: 1, Kind: KindGauge, Options: Options{"style": "ring", "min": 0, "max": 100, "unit": "%"}, Hint: "Memory usage sensor"},
			{Slot: 2, Kind: KindGauge, Options: Options{"style": "ring", "min": 0, "max": 100, "unit": "%"}, Hint: "Disk usage sensor"},
			{Slot: 3, Kind: KindChart, Options: Options{"hours": 24, "show_value": true, "show_range": false}, Hint: "Network throughput sensor"},
		},
	},
	"smart_home": {
		Key:         "smart_home",
		Name:        "Smart Home",
		Description: "Temperature, humidity, lights, motion, door, presence",
		Layout:      layout.Grid2x3,
		Widgets: []Widget{
			{Slot: 0, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true, "icon": "thermometer"}, Hint: "Temperature sensor"},
			{Slot: 1, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true, "icon": "drop"}, Hint: "Humidity sensor"},
			{Slot: 2, Kind: KindEntity, Options: Options{"show_name": true, "icon": "bulb"}, Hint: "Light entity or group"},
			{Slot: 3, Kind: KindStatus, Options: Options{"icon": "motion", "on_text": "Motion", "off_text": "Clear"}, Hint: "Motion sensor"},
			{Slot: 4, Kind: KindStatus, Options: Options{"icon": "door", "on_text": "Open", "off_text": "Closed"}, Hint: "Door sensor"},
			{Slot: 5, Kind: KindStatus, Options: Options{"icon": "home", "on_text": "Home", "off_text": "Away"}, Hint: "Presence sensor"},
		},
	},
	"weather": {
		Key:         "weather",
		Name:        "Weather Dashboard",
		Description: "Weather with forecast and indoor conditions",
		Layout:      layout.Hero,
		Widgets: []Widget{
			{Slot: 0, Kind: KindWeather, Options: Options{"show_forecast": true, "forecast_days": 3, "show_humidity": true}, Hint: "Weather source"},
			{Slot: 1, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true, "icon": "thermometer"}, Hint: "Indoor temperature sensor"},
			{Slot: 2, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true, "icon": "drop"}, Hint: "Indoor humidity sensor"},
			{Slot: 3, Kind: KindEntity, Options: Options{"show_name": true, "icon": "sun"}, Hint: "UV index or outdoor condition"},
		},
	},
	"media_player": {
		Key:         "media_player",
		Name:        "Media Player",
		Description: "Now playing with album art and controls",
		Layout:      layout.Hero,
		Widgets: []Widget{
			{Slot: 0, Kind: KindMedia, Options: Options{"show_artist": true, "show_album": false, "show_progress": true}, Hint: "Media player"},
			{Slot: 1, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true}, Hint: "Volume level"},
			{Slot: 2, Kind: KindText, Options: Options{"text": "Now Playing", "size": "small", "align": "center"}},
			{Slot: 3, Kind: KindEntity, Options: Options{"show_name": true}, Hint: "Media source"},
		},
	},
	"clock": {
		Key:         "clock",
		Name:        "Clock Dashboard",
		Description: "Large clock with date and status info",
		Layout:      layout.Hero,
		Widgets: []Widget{
			{Slot: 0, Kind: KindClock, Options: Options{"show_date": true, "show_seconds": false, "time_format": "24h"}},
			{Slot: 1, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true, "icon": "thermometer"}, Hint: "Temperature sensor"},
			{Slot: 2, Kind: KindEntity, Options: Options{"show_name": true}, Hint: "Weather condition or outdoor temp"},
			{Slot: 3, Kind: KindStatus, Options: Options{"icon": "home", "on_text": "Home", "off_text": "Away"}, Hint: "Presence indicator"},
		},
	},
	"energy": {
		Key:         "energy",
		Name:        "Energy Monitor",
		Description: "Power consumption and energy tracking",
		Layout:      layout.Grid2x2,
		Widgets: []Widget{
			{Slot: 0, Kind: KindGauge, Options: Options{"style": "arc", "min": 0, "max": 5000, "unit": "W"}, Hint: "Current power usage sensor"},
			{Slot: 1, Kind: KindChart, Options: Options{"hours": 24, "show_value": true, "show_range": true}, Hint: "Energy consumption sensor"},
			{Slot: 2, Kind: KindEntity, Options: Options{"show_name": true, "show_unit": true}, Hint: "Energy cost sensor"},
			{Slot: 3, Kind: KindStatus, Options: Options{"icon": "bolt", "on_text": "Import", "off_text": "Export"}, Hint: "Grid import/export status"},
		},
	},
	"security": {
		Key:         "security",
		Name:        "Security",
		Description: "Camera, doors, windows, and alarm status",
		Layout:      layout.Grid2x3,
		Widgets: []Widget{
			{Slot: 0, Kind: KindCamera, Options: Options{"show_label": true, "fit": "cover"}, Hint: "Security camera"},
			{Slot: 1, Kind: KindStatus, Options: Options{"icon": "door", "on_text": "Open", "off_text": "Closed"}, Hint: "Front door sensor"},
			{Slot: 2, Kind: KindStatus, Options: Options{"icon": "door", "on_text": "Open", "off_text": "Closed"}, Hint: "Back door sensor"},
			{Slot: 3, Kind: KindStatus, Options: Options{"icon": "motion", "on_text": "Detected", "off_text": "Clear"}, Hint: "Motion sensor"},
			{Slot: 4, Kind: KindStatus, Options: Options{"icon": "alarm", "on_text": "Armed", "off_text": "Disarmed"}, Hint: "Alarm panel state"},
			{Slot: 5, Kind: KindStatus, Options: Options{"icon": "lock", "on_text": "Locked", "off_text": "Unlocked"}, Hint: "Smart lock state"},
		},
	},
	"thermostat": {
		Key:         "thermostat",
		Name:        "Thermostat",
		Description: "Climate control with temperature and humidity",
		Layout:      layout.Split,
		Widgets: []Widget{
			{Slot: 0, Kind: KindGauge, Options: Options{"style": "arc", "min": 10, "max": 35, "unit": "°"}, Hint: "Current temperature"},
			{Slot: 1, Kind: KindGauge, Options: Options{"style": "arc", "min": 0, "max": 100, "unit": "%"}, Hint: "Current humidity"},
		},
	},
}

var templateKeys = []string{
	"system_monitor", "smart_home", "weather", "media_player",
	"clock", "energy", "security", "thermostat",
}

func GetTemplate(key string) (Template, bool) {
	t, ok := templates[key]
	return t, ok
}

func TemplateKeys() []string {
	out := make([]string, len(templateKeys))
	copy(out, templateKeys)
	return out
}

// TemplateNames maps template keys to display names.
func TemplateNames() map[string]string {
	return lo.SliceToMap(templateKeys, func(k string) (string, string) {
		return k, templates[k].Name
	})
}

// ApplyTemplate replaces the screen's layout and widget set with the
// template's. Widget options are copied by value so later edits never reach
// back into the catalog. The screen takes the template's display name.
func ApplyTemplate(s Screen, key string) (Screen, error) {
	t, ok := templates[key]
	if !ok {
		return Screen{}, errors.Wrapf(ErrInvalidConfig, "unknown template %q", key)
	}

	out := Screen{
		Name:   t.Name,
		Layout: t.Layout,
		Widgets: lo.Map(t.Widgets, func(w Widget, _ int) Widget {
			return w.clone()
		}),
	}
	if t.Name == "" {
		out.Name = s.Name
	}
	sortWidgets(out.Widgets)
	return out, nil
}
