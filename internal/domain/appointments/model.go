package appointments

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidStatus = errors.New("estado no válido")
	// ErrTerminalState: una cita cancelada o completada no admite otra
	// transición que no sea a sí misma.
	ErrTerminalState = errors.New("terminal state violation")
)

// Status define los estados de una cita.
// @Enum PENDIENTE, CONFIRMADA, COMPLETADA, CANCELADA
type Status string

const (
	StatusPendiente  Status = "PENDIENTE"
	StatusConfirmada Status = "CONFIRMADA"
	StatusCompletada Status = "COMPLETADA"
	StatusCancelada  Status = "CANCELADA"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPendiente, StatusConfirmada, StatusCompletada, StatusCancelada:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Terminal indica si el estado no admite más transiciones (salvo a sí mismo).
func (s Status) Terminal() bool {
	return s == StatusCompletada || s == StatusCancelada
}

// TerminalStateError rechaza una transición desde un estado terminal con el
// motivo legible que espera el cliente. errors.Is(err, ErrTerminalState) == true.
type TerminalStateError struct {
	Current Status
}

func (e *TerminalStateError) Error() string {
	return "no se puede cambiar el estado de una cita " + strings.ToLower(string(e.Current))
}

func (e *TerminalStateError) Is(target error) bool {
	return target == ErrTerminalState
}

// CanTransition valida la transición current -> next.
// Desde PENDIENTE o CONFIRMADA se acepta cualquiera de los cuatro estados
// (no hay orden forward-only entre estados no terminales). Desde un estado
// terminal solo se acepta el mismo estado (no-op idempotente).
func CanTransition(current, next Status) error {
	if _, err := ParseStatus(string(next)); err != nil {
		return err
	}
	if current.Terminal() && next != current {
		return &TerminalStateError{Current: current}
	}
	return nil
}

// Appointment representa una cita veterinaria.
type Appointment struct {
	ID    string
	PetID string
	// VetID puede quedar vacío si el veterinario referido fue eliminado.
	VetID string

	ScheduledAt time.Time // fecha_programada
	Reason      string    // motivo
	Status      Status    // estado
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
