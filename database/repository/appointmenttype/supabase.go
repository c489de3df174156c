package appointmentTypeRepo

import (
	"context"
	"encoding/json"
	"fmt"

	"edubooking/models"

	supa "github.com/supabase-community/supabase-go"
)

// SupabaseAppointmentTypeRepo reads appointment types from the portal's hosted
// Postgres, where admin screens maintain them in the appointment_types table.
type SupabaseAppointmentTypeRepo struct {
	client *supa.Client
}

func NewSupabaseClient(url, serviceKey string) (*supa.Client, error) {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}

func NewSupabaseAppointmentTypeRepo(client *supa.Client) *SupabaseAppointmentTypeRepo {
	return &SupabaseAppointmentTypeRepo{client: client}
}

// GetByID ignores ctx: the PostgREST builder has no context support.
func (r *SupabaseAppointmentTypeRepo) GetByID(_ context.Context, id string) (*models.AppointmentType, error) {
	data, _, err := r.client.From("appointment_types").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment type %s: %w", id, err)
	}

	var types []models.AppointmentType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to decode appointment type %s: %w", id, err)
	}
	if len(types) == 0 {
		return nil, ErrTypeNotFound
	}
	return &types[0], nil
}

func (r *SupabaseAppointmentTypeRepo) ListActive(_ context.Context) ([]models.AppointmentType, error) {
	data, _, err := r.client.From("appointment_types").
		Select("*", "", false).
		Eq("active", "true").
		Order("name", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment types: %w", err)
	}

	var types []models.AppointmentType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to decode appointment types: %w", err)
	}
	return types, nil
}
