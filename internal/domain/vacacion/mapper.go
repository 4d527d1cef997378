package vacacion

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// FromAPI converts a wire solicitud to the in-memory entity.
func FromAPI(api VacacionAPI) (Vacacion, error) {
	fechaInicio, err := time.Parse(dateLayout, api.FechaInicio)
	if err != nil {
		return Vacacion{}, fmt.Errorf("invalid fecha_inicio: %w", err)
	}
	fechaFin, err := time.Parse(dateLayout, api.FechaFin)
	if err != nil {
		return Vacacion{}, fmt.Errorf("invalid fecha_fin: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, api.CreatedAt)
	if err != nil {
		return Vacacion{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, api.UpdatedAt)
	if err != nil {
		return Vacacion{}, fmt.Errorf("invalid updated_at: %w", err)
	}

	var reviewedAt *time.Time
	if api.ReviewedAt != nil {
		t, err := time.Parse(time.RFC3339, *api.ReviewedAt)
		if err != nil {
			return Vacacion{}, fmt.Errorf("invalid reviewed_at: %w", err)
		}
		reviewedAt = &t
	}

	return Vacacion{
		ID:                  api.ID,
		UserID:              api.UserID,
		UserEmail:           api.UserEmail,
		UserFullName:        api.UserFullName,
		Tipo:                api.Tipo,
		FechaInicio:         fechaInicio,
		FechaFin:            fechaFin,
		DiasSolicitados:     api.DiasSolicitados,
		Motivo:              api.Motivo,
		Status:              api.Status,
		ReviewedBy:          api.ReviewedBy,
		ReviewedByName:      api.ReviewedByName,
		ReviewedAt:          reviewedAt,
		ComentariosRevision: api.ComentariosRevision,
		IsPending:           api.IsPending,
		IsApproved:          api.IsApproved,
		IsActive:            api.IsActive,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}, nil
}

// ToAPI converts an entity back to the wire shape.
func ToAPI(v Vacacion) VacacionAPI {
	var reviewedAt *string
	if v.ReviewedAt != nil {
		s := v.ReviewedAt.UTC().Format(time.RFC3339)
		reviewedAt = &s
	}

	return VacacionAPI{
		ID:                  v.ID,
		UserID:              v.UserID,
		UserEmail:           v.UserEmail,
		UserFullName:        v.UserFullName,
		Tipo:                v.Tipo,
		FechaInicio:         v.FechaInicio.Format(dateLayout),
		FechaFin:            v.FechaFin.Format(dateLayout),
		DiasSolicitados:     v.DiasSolicitados,
		Motivo:              v.Motivo,
		Status:              v.Status,
		ReviewedBy:          v.ReviewedBy,
		ReviewedByName:      v.ReviewedByName,
		ReviewedAt:          reviewedAt,
		ComentariosRevision: v.ComentariosRevision,
		IsPending:           v.IsPending,
		IsApproved:          v.IsApproved,
		IsActive:            v.IsActive,
		CreatedAt:           v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ListFromAPI converts the paginated envelope.
func ListFromAPI(api ListResponseAPI) ([]Vacacion, error) {
	solicitudes := make([]Vacacion, 0, len(api.Solicitudes))
	for i, item := range api.Solicitudes {
		v, err := FromAPI(item)
		if err != nil {
			return nil, fmt.Errorf("solicitud %d: %w", i, err)
		}
		solicitudes = append(solicitudes, v)
	}
	return solicitudes, nil
}

// BalanceFromAPI converts the balance envelope.
func BalanceFromAPI(api BalanceAPI) (Balance, error) {
	var proximo *time.Time
	if api.ProximoPeriodo != nil {
		t, err := time.Parse(dateLayout, *api.ProximoPeriodo)
		if err != nil {
			// Some deployments send a full timestamp here.
			t, err = time.Parse(time.RFC3339, *api.ProximoPeriodo)
			if err != nil {
				return Balance{}, fmt.Errorf("invalid proximo_periodo: %w", err)
			}
		}
		proximo = &t
	}

	return Balance{
		UserID:                api.UserID,
		UserEmail:             api.UserEmail,
		UserFullName:          api.UserFullName,
		DiasAnuales:           api.DiasAnuales,
		DiasDisponibles:       api.DiasDisponibles,
		DiasTomados:           api.DiasTomados,
		DiasPendientes:        api.DiasPendientes,
		SolicitudesPendientes: api.SolicitudesPendientes,
		SolicitudesAprobadas:  api.SolicitudesAprobadas,
		ProximoPeriodo:        proximo,
	}, nil
}

// NewCreateRequest builds the submission body from calendar dates.
func NewCreateRequest(tipo Tipo, fechaInicio, fechaFin time.Time, motivo string) CreateRequest {
	return CreateRequest{
		Tipo:        tipo,
		FechaInicio: fechaInicio.Format(dateLayout),
		FechaFin:    fechaFin.Format(dateLayout),
		Motivo:      motivo,
	}
}
