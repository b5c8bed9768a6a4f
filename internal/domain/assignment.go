package domain

type Assignment struct {
	ID          int    `json:"idAsignacion"`
	UserID      int    `json:"idUsuario"`
	Instruction string `json:"instruccion"`
	DueAt       string `json:"fechaEntrega"`
	Status      string `json:"estado,omitempty"`
}

type AssignmentInput struct {
	UserID      int    `json:"idUsuario"`
	Instruction string `json:"instruccion"`
	DueAt       string `json:"fechaEntrega"`
}

type RankedAssignment struct {
	Assignment
	Urgency Urgency `json:"urgency"`
}
