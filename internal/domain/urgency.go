package domain

// Tier es el rango de urgencia; 1 es el mas urgente.
type Tier int

const (
	TierOverdue   Tier = 1
	TierImminent  Tier = 2
	TierSoon      Tier = 3
	TierLater     Tier = 4
	TierCompleted Tier = 5
)

const (
	TagOverdue   = "overdue"
	TagImminent  = "due-imminently"
	TagSoon      = "due-soon"
	TagLater     = "due-later"
	TagCompleted = "completed"
)

// Urgency es el resultado de clasificar un par (plazo, estado).
// Unparseable marca plazos ilegibles que cayeron en TierLater.
type Urgency struct {
	Tier        Tier   `json:"tier"`
	Tag         string `json:"tag"`
	Unparseable bool   `json:"unparseable,omitempty"`
}
