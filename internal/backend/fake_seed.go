package backend

import (
	"time"

	"docflow/internal/domain"
)

// SeedDemo carga datos de ejemplo con plazos relativos a now, uno por
// nivel de urgencia. Devuelve el usuario con el que se puede iniciar sesion.
func (f *Fake) SeedDemo(now time.Time) (email, password string) {
	email, password = "demo@docflow.local", "demo"
	owner := f.AddUser(domain.User{Name: "Demo", Email: email, Role: "admin", IsActive: true}, password)
	f.AddUser(domain.User{Name: "Revisor", Email: "revisor@docflow.local", Role: "revisor", IsActive: true}, "revisor")

	day := 24 * time.Hour
	docs := []domain.Document{
		{Code: "DOC-LATER", Subject: "Informe anual", Deadline: FormatAPIDate(now.Add(30 * day)), Status: "pendiente"},
		{Code: "DOC-OVERDUE", Subject: "Respuesta a oficio", Deadline: FormatAPIDate(now.Add(-day)), Status: "pendiente"},
		{Code: "DOC-SOON", Subject: "Acta de consejo", Deadline: FormatAPIDate(now.Add(5 * day)), Status: "en revision"},
		{Code: "DOC-DONE", Subject: "Convenio firmado", Deadline: FormatAPIDate(now.Add(-10 * day)), Status: "completado"},
		{Code: "DOC-IMMINENT", Subject: "Memorando interno", Deadline: FormatAPIDate(now.Add(day)), Status: "pendiente"},
	}
	proc := f.AddProcess(domain.Process{
		Code:        "PROC-001",
		Description: "Tramite de convenios",
		StartedAt:   FormatAPIDate(now.Add(-60 * day)),
		UpdatedAt:   FormatAPIDate(now.Add(-2 * day)),
	})
	for _, d := range docs {
		d.OwnerID = owner.ID
		doc := f.AddDocument(d)
		f.LinkDocument(proc.ID, doc.ID)
		f.AddVersion(domain.Version{DocumentID: doc.ID, Comment: "version inicial", ModifiedAt: FormatAPIDate(now.Add(-3 * day))})
	}
	f.AddAssignment(domain.Assignment{UserID: owner.ID, Instruction: "Revisar acta", DueAt: FormatAPIDate(now.Add(12 * time.Hour)), Status: "pendiente"})
	f.AddAssignment(domain.Assignment{UserID: owner.ID, Instruction: "Firmar convenio", DueAt: FormatAPIDate(now.Add(-2 * day)), Status: "finalizado"})
	return email, password
}
