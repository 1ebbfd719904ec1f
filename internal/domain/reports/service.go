// Package reports arma el resumen operativo de la clínica a partir de los
// agregados que exponen los otros dominios.
package reports

import (
	"context"

	"vet-clinic-backend/internal/domain/appointments"
)

type AppointmentCounter interface {
	CountByStatus(ctx context.Context) (map[appointments.Status]int, error)
}

type SpeciesCounter interface {
	CountBySpecies(ctx context.Context) (map[string]int, error)
}

type VaccineCounter interface {
	CountVaccines(ctx context.Context) (int, error)
}

type Service struct {
	citas    AppointmentCounter
	especies SpeciesCounter
	vacunas  VaccineCounter
}

func NewService(citas AppointmentCounter, especies SpeciesCounter, vacunas VaccineCounter) *Service {
	return &Service{citas: citas, especies: especies, vacunas: vacunas}
}

type Summary struct {
	CitasPorEstado     map[string]int `json:"citas_por_estado"`
	MascotasPorEspecie map[string]int `json:"mascotas_por_especie"`
	VacunasAplicadas   int            `json:"vacunas_aplicadas"`
}

// Summary agrega los contadores. Los estados sin citas aparecen en cero para
// que el cliente no tenga que distinguir entre "ausente" y "vacío".
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	byStatus, err := s.citas.CountByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}

	estados := map[string]int{
		string(appointments.StatusPendiente):  0,
		string(appointments.StatusConfirmada): 0,
		string(appointments.StatusCompletada): 0,
		string(appointments.StatusCancelada):  0,
	}
	for st, n := range byStatus {
		estados[string(st)] = n
	}

	bySpecies, err := s.especies.CountBySpecies(ctx)
	if err != nil {
		return Summary{}, err
	}

	total, err := s.vacunas.CountVaccines(ctx)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		CitasPorEstado:     estados,
		MascotasPorEspecie: bySpecies,
		VacunasAplicadas:   total,
	}, nil
}
