package events

// Kind es una etiqueta libre de categoría. Estos son los valores que
// usa la app, pero no se valida contra una lista cerrada.
type Kind string

const (
	KindWalk     Kind = "walk"
	KindMeetup   Kind = "dog_park_meetup"
	KindTraining Kind = "training"
	KindOther    Kind = "other"
)
