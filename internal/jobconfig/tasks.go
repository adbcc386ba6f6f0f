// Package jobconfig holds the static collection targets: which media
// accounts are polled and which political figures are tracked. The tables
// are ordinary immutable configuration data loaded at process start.
package jobconfig

import "github.com/pulsomx/collector-go/pkg/collect"

// MediaOutlets are the monitored accounts, in fixed iteration order.
var MediaOutlets = []string{
	"Reforma",
	"El_Universal_Mx",
	"Milenio",
	"AristeguiOnline",
	"SinEmbargoMX",
	"Excelsior",
	"ElFinanciero_Mx",
	"ElEconomistaMX",
	"Proceso",
	"AnimalPolitico",
}

// Topic pairs a tracked figure with the search terms that match them.
type Topic struct {
	Name  string
	Terms []string
}

// Topics are the tracked political figures. A slice, not a map: iteration
// order is part of the scheduling contract.
var Topics = []Topic{
	{Name: "Sheinbaum", Terms: []string{"@Claudiashein", `"Claudia Sheinbaum"`}},
	{Name: "Galvez", Terms: []string{"@XochitlGalvez", `"Xóchitl Gálvez"`}},
	{Name: "AMLO", Terms: []string{"@lopezobrador_", `"López Obrador"`}},
	{Name: "Monreal", Terms: []string{"@RicardoMonrealA", `"Ricardo Monreal"`}},
	{Name: "Ebrard", Terms: []string{"@m_ebrard", `"Marcelo Ebrard"`}},
	{Name: "Cordero", Terms: []string{"@JoseCorderoMX", `"José Cordero"`}},
	{Name: "Calleja", Terms: []string{"@CallejaMty", `"Calleja Monterrey"`}},
	{Name: "Cortés", Terms: []string{"@MarkoCortes", `"Marko Cortés"`}},
	{Name: "Castañeda", Terms: []string{"@CastanedaMiguel", `"Miguel Castañeda"`}},
	{Name: "Zavala", Terms: []string{"@FelipeCalderon", `"Felipe Calderón"`}},
	{Name: "Anaya", Terms: []string{"@RicardoAnayaC", `"Ricardo Anaya"`}},
}

// Tasks builds the cross product of outlets and topics in fixed order.
func Tasks() []collect.Task {
	tasks := make([]collect.Task, 0, len(MediaOutlets)*len(Topics))
	for _, outlet := range MediaOutlets {
		for _, topic := range Topics {
			tasks = append(tasks, collect.Task{
				SourceID: outlet,
				TopicID:  topic.Name,
				Terms:    topic.Terms,
			})
		}
	}
	return tasks
}
