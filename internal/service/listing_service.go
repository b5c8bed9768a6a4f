package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"docflow/internal/domain"
)

// RecordSource es la parte del cliente de la API que usa el listado.
type RecordSource interface {
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	ListProcesses(ctx context.Context) ([]domain.Process, error)
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
}

// ListingService arma los listados ordenados por urgencia.
type ListingService struct {
	logger *zap.Logger
	source RecordSource
	loc    *time.Location
	now    func() time.Time
}

func NewListingService(logger *zap.Logger, source RecordSource, loc *time.Location) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ListingService{
		logger: logger,
		source: source,
		loc:    loc,
		now:    time.Now,
	}
}

// WithSource devuelve una copia que lee de otra fuente.
func (s *ListingService) WithSource(source RecordSource) *ListingService {
	clone := *s
	clone.source = source
	return &clone
}

// Documents filtra por codigo (subcadena, sin distinguir mayusculas),
// clasifica y ordena de forma estable por nivel.
func (s *ListingService) Documents(ctx context.Context, query string) ([]domain.RankedDocument, error) {
	docs, err := s.source.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	filtered := docs[:0:0]
	for _, d := range docs {
		if matchesQuery(d.Code, query) {
			filtered = append(filtered, d)
		}
	}
	ranked := RankDocuments(filtered, s.now(), s.loc)
	for _, r := range ranked {
		if r.Urgency.Unparseable {
			s.logger.Warn("document deadline unparseable",
				zap.Int("document_id", r.ID),
				zap.String("code", r.Code),
				zap.String("deadline", r.Deadline),
			)
		}
	}
	return ranked, nil
}

// UrgentDocuments devuelve solo los documentos vencidos o por vencer.
func (s *ListingService) UrgentDocuments(ctx context.Context) ([]domain.RankedDocument, error) {
	ranked, err := s.Documents(ctx, "")
	if err != nil {
		return nil, err
	}
	urgent := ranked[:0:0]
	for _, r := range ranked {
		if r.Urgency.Tier <= domain.TierImminent {
			urgent = append(urgent, r)
		}
	}
	return urgent, nil
}

// Processes filtra por codigo igual que Documents. No hay orden por urgencia.
func (s *ListingService) Processes(ctx context.Context, query string) ([]domain.Process, error) {
	items, err := s.source.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	filtered := items[:0:0]
	for _, p := range items {
		if matchesQuery(p.Code, query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Assignments filtra por instruccion y ordena por fechaEntrega.
func (s *ListingService) Assignments(ctx context.Context, query string) ([]domain.RankedAssignment, error) {
	items, err := s.source.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	filtered := items[:0:0]
	for _, a := range items {
		if matchesQuery(a.Instruction, query) {
			filtered = append(filtered, a)
		}
	}
	ranked := RankAssignments(filtered, s.now(), s.loc)
	for _, r := range ranked {
		if r.Urgency.Unparseable {
			s.logger.Warn("assignment due date unparseable",
				zap.Int("assignment_id", r.ID),
				zap.String("due_at", r.DueAt),
			)
		}
	}
	return ranked, nil
}

func matchesQuery(value, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}
