package email

import (
	"fmt"
	"strings"
	"time"

	"docflow/internal/domain"
)

// UrgentDigest arma asunto y cuerpo del resumen de documentos urgentes.
// Devuelve ok=false si no hay nada que avisar.
func UrgentDigest(docs []domain.RankedDocument, now time.Time) (subject, body string, ok bool) {
	if len(docs) == 0 {
		return "", "", false
	}
	overdue := 0
	for _, d := range docs {
		if d.Urgency.Tier == domain.TierOverdue {
			overdue++
		}
	}
	subject = fmt.Sprintf("docflow: %d documentos urgentes (%d vencidos)", len(docs), overdue)

	var b strings.Builder
	fmt.Fprintf(&b, "Resumen generado el %s.\n\n", now.Format(time.DateTime))
	for _, d := range docs {
		deadline := d.Deadline
		if deadline == "" {
			deadline = "sin plazo"
		}
		fmt.Fprintf(&b, "[%s] %s - %s (plazo %s)\n", d.Urgency.Tag, d.Code, d.Subject, deadline)
	}
	return subject, b.String(), true
}
