package models

// AppointmentType is read-only reference data describing what can be booked.
type AppointmentType struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	DurationMinutes int    `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	Active          bool   `bson:"active" json:"active"`
}

// AppointmentTypeSummary is the snapshot embedded in appointment responses.
type AppointmentTypeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (t AppointmentType) Summary() *AppointmentTypeSummary {
	return &AppointmentTypeSummary{ID: t.ID, Name: t.Name}
}
